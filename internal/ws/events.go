package ws

import (
	"encoding/json"
	"time"
)

// Client -> server events
const (
	EventConversationJoin  = "conversation:join"
	EventConversationLeave = "conversation:leave"
	EventMessageSend       = "message:send"
	EventMessageDelivered  = "message:delivered"
	EventMessageRead       = "message:read"
	EventTypingStart       = "typing:start"
	EventTypingStop        = "typing:stop"
	EventCheckOnline       = "user:check-online"
)

// Server -> client events
const (
	EventUserOnline          = "user:online"
	EventUserOffline         = "user:offline"
	EventConversationJoined  = "conversation:joined"
	EventConversationLeft    = "conversation:left"
	EventMessageNew          = "message:new"
	EventMessageNotification = "message:notification"
	EventMessageStatus       = "message:status"
	EventMessagesRead        = "messages:read"
	EventError               = "error"
)

// Frame is the envelope every websocket message travels in.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type conversationRef struct {
	ConversationID string `json:"conversation_id"`
}

type sendMessagePayload struct {
	ConversationID string  `json:"conversation_id"`
	Content        string  `json:"content"`
	Type           string  `json:"type,omitempty"`
	AttachmentURL  *string `json:"attachment_url,omitempty"`
	ReplyToID      *string `json:"reply_to_id,omitempty"`
}

type deliveredPayload struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
}

type checkOnlinePayload struct {
	UserIDs []string `json:"user_ids"`
}

type userOnlinePayload struct {
	UserID string `json:"user_id"`
}

type userOfflinePayload struct {
	UserID   string    `json:"user_id"`
	LastSeen time.Time `json:"last_seen"`
}

type messageStatusPayload struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

type messagesReadPayload struct {
	ConversationID string    `json:"conversation_id"`
	ReadBy         string    `json:"read_by"`
	ReadAt         time.Time `json:"read_at"`
}

type typingPayload struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id,omitempty"`
}

type notificationPayload struct {
	ConversationID string `json:"conversation_id"`
	Message        any    `json:"message"`
}

type onlineStatus struct {
	UserID   string     `json:"user_id"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// encodeFrame marshals an outbound event. Payload marshaling only fails for
// unrepresentable values, which none of the event payloads contain.
func encodeFrame(event string, payload any) []byte {
	data, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}{Event: event, Data: payload})
	if err != nil {
		return []byte(`{"event":"error","data":{"message":"encoding failure"}}`)
	}
	return data
}
