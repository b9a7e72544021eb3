package chat

import (
	"time"

	"github.com/google/uuid"
)

// Conversation types
const (
	TypeDirect         = "DIRECT"
	TypeProductInquiry = "PRODUCT_INQUIRY"
)

// Message content types
const (
	MessageText  = "TEXT"
	MessageImage = "IMAGE"
	MessageFile  = "FILE"
)

// Message delivery statuses, ordered SENT < DELIVERED < READ
const (
	StatusSent      = "SENT"
	StatusDelivered = "DELIVERED"
	StatusRead      = "READ"
)

// MaxContentLength bounds message content.
const MaxContentLength = 2000

// Conversation represents the conversations table. PairKey is the storage
// identity of the pair+product combination; its unique index is what turns
// two racing creates into one conversation.
type Conversation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Type      string     `gorm:"not null"`
	PairKey   string     `gorm:"not null;uniqueIndex"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`

	// Relationships
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE"`
}

// Participant represents the conversation_participants table.
// (ConversationID, UserID) is unique: a user joins a conversation once.
type Participant struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversation_user"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_conversation_user"`
	LastReadAt     *time.Time
	CreatedAt      time.Time
}

// Message represents the messages table. Messages are append-only;
// only Status mutates after creation, and only forward.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID `gorm:"type:uuid;index"`
	SenderID       uuid.UUID `gorm:"type:uuid"`
	Content        string    `gorm:"size:2000"`
	Type           string    `gorm:"not null;default:TEXT"`
	Status         string    `gorm:"not null;default:SENT"`
	AttachmentURL  *string
	ReplyToID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time  `gorm:"index"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Participant) TableName() string {
	return "conversation_participants"
}

func (Message) TableName() string {
	return "messages"
}

// PairKey derives the dedup identity of a two-party conversation: both user
// ids in lexical order plus the product context ("-" when unscoped). The
// same pair with and without a product are distinct conversations.
func PairKey(userA, userB uuid.UUID, productID *uuid.UUID) string {
	a, b := userA.String(), userB.String()
	if b < a {
		a, b = b, a
	}
	product := "-"
	if productID != nil {
		product = productID.String()
	}
	return a + ":" + b + ":" + product
}

// StatusRank maps a delivery status to its position in the
// SENT -> DELIVERED -> READ progression. Unknown statuses rank lowest.
func StatusRank(status string) int {
	switch status {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	default:
		return 0
	}
}

// ValidMessageType reports whether t is a known message content type.
func ValidMessageType(t string) bool {
	return t == MessageText || t == MessageImage || t == MessageFile
}

// OtherParticipant returns the participant that is not userID.
// Two-party conversations only; returns nil if no other participant is loaded.
func (c Conversation) OtherParticipant(userID uuid.UUID) *Participant {
	for i := range c.Participants {
		if c.Participants[i].UserID != userID {
			return &c.Participants[i]
		}
	}
	return nil
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			return true
		}
	}
	return false
}
