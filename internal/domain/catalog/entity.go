package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product listing statuses
const (
	ProductActive = "ACTIVE"
	ProductSold   = "SOLD"
)

// Category represents the categories lookup table
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Slug      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
}

// Product represents the products table
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID     uuid.UUID `gorm:"type:uuid;index;not null"`
	CategoryID   *uuid.UUID `gorm:"type:uuid;index"`
	UniversityID *uuid.UUID `gorm:"type:uuid;index"`
	Title        string     `gorm:"not null"`
	Description  string
	PriceCents   int64 `gorm:"not null"`
	Condition    string
	ImageURL     *string
	Status       string `gorm:"not null;default:ACTIVE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

func (Product) TableName() string {
	return "products"
}
