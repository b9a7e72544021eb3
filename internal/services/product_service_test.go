package services

import (
	"context"
	"testing"

	"unimarket/internal/domain/catalog"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService() (*ProductService, uuid.UUID) {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]catalog.Product)}
	return NewProductService(repo), uuid.New()
}

func TestProductCreateAndUpdate(t *testing.T) {
	svc, seller := newProductService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateProductInput{SellerID: seller, Title: "  ", PriceCents: 100})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateProductInput{SellerID: seller, Title: "Desk", PriceCents: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	p, err := svc.Create(ctx, CreateProductInput{SellerID: seller, Title: "Desk", PriceCents: 4500})
	require.NoError(t, err)
	assert.Equal(t, catalog.ProductActive, p.Status)

	newTitle := "Standing Desk"
	newPrice := int64(6000)
	updated, err := svc.Update(ctx, p.ID, seller, UpdateProductInput{Title: &newTitle, PriceCents: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Standing Desk", updated.Title)
	assert.EqualValues(t, 6000, updated.PriceCents)

	// Only the seller may change or remove a listing.
	stranger := uuid.New()
	_, err = svc.Update(ctx, p.ID, stranger, UpdateProductInput{Title: &newTitle})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = svc.Delete(ctx, p.ID, stranger)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, p.ID, seller))
	_, err = svc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductMarkSold(t *testing.T) {
	svc, seller := newProductService()
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{SellerID: seller, Title: "Bike", PriceCents: 12000})
	require.NoError(t, err)

	sold := catalog.ProductSold
	updated, err := svc.Update(ctx, p.ID, seller, UpdateProductInput{Status: &sold})
	require.NoError(t, err)
	assert.Equal(t, catalog.ProductSold, updated.Status)

	bogus := "LOST"
	_, err = svc.Update(ctx, p.ID, seller, UpdateProductInput{Status: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
