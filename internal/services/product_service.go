package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/repository"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
)

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

type CreateProductInput struct {
	SellerID     uuid.UUID
	CategoryID   *uuid.UUID
	UniversityID *uuid.UUID
	Title        string
	Description  string
	PriceCents   int64
	Condition    string
	ImageURL     *string
}

type UpdateProductInput struct {
	Title       *string
	Description *string
	PriceCents  *int64
	Condition   *string
	ImageURL    *string
	Status      *string
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (catalog.Product, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return catalog.Product{}, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if in.PriceCents < 0 {
		return catalog.Product{}, fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidInput)
	}

	p := catalog.Product{
		ID:           uuid.New(),
		SellerID:     in.SellerID,
		CategoryID:   in.CategoryID,
		UniversityID: in.UniversityID,
		Title:        title,
		Description:  in.Description,
		PriceCents:   in.PriceCents,
		Condition:    in.Condition,
		ImageURL:     in.ImageURL,
		Status:       catalog.ProductActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.productRepo.Create(ctx, &p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]catalog.Product, int64, error) {
	return s.productRepo.List(ctx, filter)
}

// Update applies the provided fields after an ownership check.
func (s *ProductService) Update(ctx context.Context, productID, requesterID uuid.UUID, in UpdateProductInput) (catalog.Product, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return catalog.Product{}, err
	}
	if p.SellerID != requesterID {
		return catalog.Product{}, apperrors.ErrForbidden
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return catalog.Product{}, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
		}
		p.Title = title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return catalog.Product{}, fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidInput)
		}
		p.PriceCents = *in.PriceCents
	}
	if in.Condition != nil {
		p.Condition = *in.Condition
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.Status != nil {
		if *in.Status != catalog.ProductActive && *in.Status != catalog.ProductSold {
			return catalog.Product{}, fmt.Errorf("%w: unknown product status %q", apperrors.ErrInvalidInput, *in.Status)
		}
		p.Status = *in.Status
	}
	p.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

// Delete soft-deletes a listing after an ownership check.
func (s *ProductService) Delete(ctx context.Context, productID, requesterID uuid.UUID) error {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.SellerID != requesterID {
		return apperrors.ErrForbidden
	}
	return s.productRepo.Delete(ctx, productID)
}
