package repository

import (
	"context"
	"time"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/chat"
	"unimarket/internal/domain/upload"
	"unimarket/internal/domain/user"
	"unimarket/internal/domain/wishlist"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	// CreateWithParticipants persists the conversation and one participant row
	// per user id in a single transaction. A conversation with the same pair
	// key already existing surfaces as ErrAlreadyExists.
	CreateWithParticipants(ctx context.Context, c *chat.Conversation, userIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error)
	// FindDirect returns the conversation between the two users scoped to
	// productID (nil means "no product"); ErrNotFound if none exists.
	FindDirect(ctx context.Context, userA, userB uuid.UUID, productID *uuid.UUID) (chat.Conversation, error)
	GetUserConversations(ctx context.Context, userID uuid.UUID, page, limit int) ([]chat.Conversation, int64, error)
	GetUserConversationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]chat.Participant, error)
	UpdateLastRead(ctx context.Context, conversationID, userID uuid.UUID, readAt time.Time) error
}

type MessageRepository interface {
	// Append inserts the message with status SENT and bumps the
	// conversation's updated_at in the same transaction.
	Append(ctx context.Context, m *chat.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (chat.Message, error)
	// ListByConversation returns one page of messages newest-first.
	ListByConversation(ctx context.Context, conversationID uuid.UUID, page, limit int) ([]chat.Message, int64, error)
	LastMessage(ctx context.Context, conversationID uuid.UUID) (chat.Message, error)
	CountUnread(ctx context.Context, conversationID, userID uuid.UUID) (int64, error)
	// MarkConversationRead transitions every message not sent by readerID
	// and not yet READ to READ; returns the number of rows changed.
	MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
	// AdvanceStatus moves a message to status only if that is a forward
	// transition; reports whether a row changed.
	AdvanceStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *catalog.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error)
	Update(ctx context.Context, p catalog.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ProductFilter) ([]catalog.Product, int64, error)
}

// ProductFilter narrows product listings; zero values mean "no filter".
type ProductFilter struct {
	SellerID     *uuid.UUID
	CategoryID   *uuid.UUID
	UniversityID *uuid.UUID
	Query        string
	Page         int
	Limit        int
}

type LookupRepository interface {
	Universities(ctx context.Context) ([]user.University, error)
	UniversityByID(ctx context.Context, id uuid.UUID) (user.University, error)
	Categories(ctx context.Context) ([]catalog.Category, error)
}

type WishlistRepository interface {
	Add(ctx context.Context, item *wishlist.Item) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]wishlist.Item, error)
}

type UploadRepository interface {
	Create(ctx context.Context, s *upload.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (upload.Session, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ListByUploader(ctx context.Context, uploaderID uuid.UUID) ([]upload.Session, error)
}
