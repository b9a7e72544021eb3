package wishlist

import (
	"time"

	"github.com/google/uuid"
)

// Item represents the wishlist_items table.
// (UserID, ProductID) is unique: a product is wished once per user.
type Item struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time
}

func (Item) TableName() string {
	return "wishlist_items"
}
