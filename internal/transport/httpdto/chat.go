package httpdto

import (
	"time"

	"unimarket/internal/domain/chat"
	"unimarket/internal/services"
)

// CreateConversationRequest is used for POST /conversations
type CreateConversationRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	ProductID     string `json:"product_id,omitempty"`
}

// SendMessageRequest is used for POST /conversations/:id/messages
type SendMessageRequest struct {
	Content       string `json:"content" binding:"required"`
	Type          string `json:"type,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	ReplyToID     string `json:"reply_to_id,omitempty"`
}

// ConversationDTO represents a conversation in API responses
type ConversationDTO struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	ProductID   string      `json:"product_id,omitempty"`
	OtherUser   *UserDTO    `json:"other_user,omitempty"`
	Product     *ProductDTO `json:"product,omitempty"`
	LastMessage *MessageDTO `json:"last_message,omitempty"`
	UnreadCount int64       `json:"unread_count"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// MessageDTO represents a message in API responses
type MessageDTO struct {
	ID             string   `json:"id"`
	ConversationID string   `json:"conversation_id"`
	SenderID       string   `json:"sender_id"`
	Sender         *UserDTO `json:"sender,omitempty"`
	Content        string   `json:"content"`
	Type           string   `json:"type"`
	Status         string   `json:"status"`
	AttachmentURL  string   `json:"attachment_url,omitempty"`
	ReplyToID      string   `json:"reply_to_id,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

// ConversationsResponse is returned when listing conversations
type ConversationsResponse struct {
	Conversations []ConversationDTO `json:"conversations"`
	Total         int64             `json:"total"`
}

// MessagesResponse is returned when listing messages
type MessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
	Total    int64        `json:"total"`
}

// UnreadCountResponse is returned for the unread badge
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// FromMessage converts a domain message to MessageDTO
func FromMessage(m chat.Message) MessageDTO {
	dto := MessageDTO{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		SenderID:       m.SenderID.String(),
		Content:        m.Content,
		Type:           m.Type,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
	if m.AttachmentURL != nil {
		dto.AttachmentURL = *m.AttachmentURL
	}
	if m.ReplyToID != nil {
		dto.ReplyToID = m.ReplyToID.String()
	}
	return dto
}

// FromMessageSlice converts a slice of domain messages to MessageDTO slice
func FromMessageSlice(messages []chat.Message) []MessageDTO {
	dtos := make([]MessageDTO, len(messages))
	for i, m := range messages {
		dtos[i] = FromMessage(m)
	}
	return dtos
}

// FromMessageView converts a message with sender identity to MessageDTO
func FromMessageView(v services.MessageView) MessageDTO {
	dto := FromMessage(v.Message)
	sender := FromUser(v.Sender)
	dto.Sender = &sender
	return dto
}

// FromConversationEntry converts an enriched conversation to ConversationDTO
func FromConversationEntry(e services.ConversationEntry) ConversationDTO {
	dto := ConversationDTO{
		ID:          e.Conversation.ID.String(),
		Type:        e.Conversation.Type,
		UnreadCount: e.UnreadCount,
		CreatedAt:   e.Conversation.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.Conversation.UpdatedAt.Format(time.RFC3339),
	}
	if e.Conversation.ProductID != nil {
		dto.ProductID = e.Conversation.ProductID.String()
	}
	if e.OtherUser != nil {
		other := FromUser(*e.OtherUser)
		dto.OtherUser = &other
	}
	if e.Product != nil {
		product := FromProduct(*e.Product)
		dto.Product = &product
	}
	if e.LastMessage != nil {
		last := FromMessage(*e.LastMessage)
		dto.LastMessage = &last
	}
	return dto
}

// FromConversationEntrySlice converts a slice of enriched conversations
func FromConversationEntrySlice(entries []services.ConversationEntry) []ConversationDTO {
	dtos := make([]ConversationDTO, len(entries))
	for i, e := range entries {
		dtos[i] = FromConversationEntry(e)
	}
	return dtos
}
