package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasphere/internal/service"
)

func registerInput() service.RegisterInput {
	return service.RegisterInput{
		Username:  "maria",
		Email:     "maria@example.com",
		Password:  "s3cret-pass",
		FirstName: "Maria",
		LastName:  "Santos",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAuthService(db)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "s3cret-pass", string(user.PasswordHash))

	got, err := svc.Authenticate(context.Background(), "maria", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.LastLogin)

	// Email works as the login identifier too.
	got, err = svc.Authenticate(context.Background(), "maria@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAuthService(db)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "maria", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAuthService(db)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, service.ErrUsernameTaken)

	dup = registerInput()
	dup.Username = "other"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAvailabilityChecks(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAuthService(db)

	exists, err := svc.UsernameExists(context.Background(), "maria")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	exists, err = svc.UsernameExists(context.Background(), "maria")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.EmailExists(context.Background(), "maria@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.EmailExists(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
