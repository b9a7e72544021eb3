package services

import (
	"context"
	"errors"
	"time"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/wishlist"
	"unimarket/internal/repository"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

// WishlistEntry pairs a wishlist row with the product it points at.
type WishlistEntry struct {
	Item    wishlist.Item
	Product *catalog.Product
}

// Add is idempotent: wishing an already-wished product returns the
// existing state instead of failing.
func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (wishlist.Item, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return wishlist.Item{}, err
	}

	item := wishlist.Item{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	if err := s.wishlistRepo.Add(ctx, &item); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return item, nil
		}
		return wishlist.Item{}, err
	}
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return s.wishlistRepo.Remove(ctx, userID, productID)
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]WishlistEntry, error) {
	items, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	entries := make([]WishlistEntry, 0, len(items))
	for _, item := range items {
		entry := WishlistEntry{Item: item}
		if p, ok := byID[item.ProductID]; ok {
			entry.Product = &p
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
