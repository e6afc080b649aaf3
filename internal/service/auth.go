package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"aquasphere/internal/database"
	"aquasphere/internal/model"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db *database.DB
}

func NewAuthService(db *database.DB) *AuthService {
	return &AuthService{db: db}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Gender      string
	DateOfBirth string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	taken, err := s.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	taken, err = s.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	id, err := s.db.InsertReturningID(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, gender, date_of_birth, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Username, in.Email, hash, in.FirstName, in.LastName, in.Gender, in.DateOfBirth, false, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &model.User{
		ID:           id,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       in.Gender,
		DateOfBirth:  in.DateOfBirth,
		CreatedAt:    now,
	}, nil
}

// Authenticate accepts a username or an email as the login identifier and
// records a successful login time.
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	user, err := s.findByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(
		`UPDATE users SET last_login = ? WHERE id = ?`), now, user.ID); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

func (s *AuthService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.scanUser(s.db.QueryRowxContext(ctx, s.db.Rebind(
		userColumns+` WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username)
}

func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email)
}

func (s *AuthService) exists(ctx context.Context, query, arg string) (bool, error) {
	var n int
	if err := s.db.QueryRowxContext(ctx, s.db.Rebind(query), arg).Scan(&n); err != nil {
		return false, fmt.Errorf("check existence: %w", err)
	}
	return n > 0, nil
}

const userColumns = `SELECT id, username, email, password_hash, first_name, last_name, gender, date_of_birth, is_admin, created_at, last_login FROM users`

func (s *AuthService) findByLogin(ctx context.Context, login string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowxContext(ctx, s.db.Rebind(
		userColumns+` WHERE username = ? OR email = ?`), login, login))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *AuthService) scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Gender, &u.DateOfBirth, &u.IsAdmin, &u.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}
