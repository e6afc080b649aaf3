package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquasphere/internal/service"
)

func jugInput() service.ProductInput {
	return service.ProductInput{
		Label:       "Round Jug",
		Description: "5 gallon round jug",
		Price:       dec("150"),
		Category:    "containers",
		Unit:        "jug",
		ImageURL:    "uploads/products/product_x.png",
	}
}

func TestProductAddListUpdateDelete(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProductService(db)

	p, err := svc.Add(context.Background(), jugInput())
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Round Jug", products[0].Label)
	assert.True(t, products[0].Price.Equal(dec("150")))

	in := jugInput()
	in.Label = "Slim Jug"
	in.Price = dec("175.50")
	in.ImageURL = "" // keeps the stored image
	require.NoError(t, svc.Update(context.Background(), p.ID, in))

	products, err = svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Slim Jug", products[0].Label)
	assert.True(t, products[0].Price.Equal(dec("175.50")))
	assert.Equal(t, "uploads/products/product_x.png", products[0].ImageURL)

	require.NoError(t, svc.Delete(context.Background(), p.ID))

	products, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductUpdateDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewProductService(db)

	err := svc.Update(context.Background(), 42, jugInput())
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	err = svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}
