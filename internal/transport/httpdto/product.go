package httpdto

import (
	"time"

	"unimarket/internal/domain/catalog"
)

// CreateProductRequest is used for POST /products
type CreateProductRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description,omitempty"`
	PriceCents   int64  `json:"price_cents" binding:"required"`
	Condition    string `json:"condition,omitempty"`
	CategoryID   string `json:"category_id,omitempty"`
	UniversityID string `json:"university_id,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// UpdateProductRequest is used for PUT /products/:id
type UpdateProductRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Condition   *string `json:"condition,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ProductDTO represents a product listing in API responses
type ProductDTO struct {
	ID           string `json:"id"`
	SellerID     string `json:"seller_id"`
	CategoryID   string `json:"category_id,omitempty"`
	UniversityID string `json:"university_id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	PriceCents   int64  `json:"price_cents"`
	Condition    string `json:"condition,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ProductsResponse is returned when listing products
type ProductsResponse struct {
	Products []ProductDTO `json:"products"`
	Total    int64        `json:"total"`
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FromProduct converts a domain product to ProductDTO
func FromProduct(p catalog.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID.String(),
		SellerID:    p.SellerID.String(),
		Title:       p.Title,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Condition:   p.Condition,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		dto.CategoryID = p.CategoryID.String()
	}
	if p.UniversityID != nil {
		dto.UniversityID = p.UniversityID.String()
	}
	if p.ImageURL != nil {
		dto.ImageURL = *p.ImageURL
	}
	return dto
}

// FromProductSlice converts a slice of domain products to ProductDTO slice
func FromProductSlice(products []catalog.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = FromProduct(p)
	}
	return dtos
}

// FromCategory converts a domain category to CategoryDTO
func FromCategory(c catalog.Category) CategoryDTO {
	return CategoryDTO{
		ID:   c.ID.String(),
		Name: c.Name,
		Slug: c.Slug,
	}
}

// FromCategorySlice converts a slice of domain categories to CategoryDTO slice
func FromCategorySlice(categories []catalog.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = FromCategory(c)
	}
	return dtos
}
