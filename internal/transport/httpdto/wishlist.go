package httpdto

import (
	"time"

	"unimarket/internal/services"
)

// AddWishlistRequest is used for POST /wishlist
type AddWishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// WishlistEntryDTO represents a wishlist entry in API responses
type WishlistEntryDTO struct {
	ProductID string      `json:"product_id"`
	Product   *ProductDTO `json:"product,omitempty"`
	AddedAt   string      `json:"added_at"`
}

// WishlistResponse is returned when listing wishlist entries
type WishlistResponse struct {
	Items []WishlistEntryDTO `json:"items"`
}

// FromWishlistEntry converts a service wishlist entry to WishlistEntryDTO
func FromWishlistEntry(e services.WishlistEntry) WishlistEntryDTO {
	dto := WishlistEntryDTO{
		ProductID: e.Item.ProductID.String(),
		AddedAt:   e.Item.CreatedAt.Format(time.RFC3339),
	}
	if e.Product != nil {
		product := FromProduct(*e.Product)
		dto.Product = &product
	}
	return dto
}

// FromWishlistEntrySlice converts a slice of wishlist entries
func FromWishlistEntrySlice(entries []services.WishlistEntry) []WishlistEntryDTO {
	dtos := make([]WishlistEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = FromWishlistEntry(e)
	}
	return dtos
}
