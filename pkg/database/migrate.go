package database

import (
	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/chat"
	"unimarket/internal/domain/upload"
	"unimarket/internal/domain/user"
	"unimarket/internal/domain/wishlist"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the application uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.University{},
		&user.User{},
		&catalog.Category{},
		&catalog.Product{},
		&chat.Conversation{},
		&chat.Participant{},
		&chat.Message{},
		&wishlist.Item{},
		&upload.Session{},
	)
}
