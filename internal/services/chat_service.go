package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/chat"
	"unimarket/internal/domain/user"
	"unimarket/internal/repository"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ChatService coordinates the conversation store operations behind the
// user-visible messaging behaviors: get-or-create dedup, participant
// authorization, read receipts and unread accounting.
type ChatService struct {
	convRepo    repository.ConversationRepository
	msgRepo     repository.MessageRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

func NewChatService(convRepo repository.ConversationRepository, msgRepo repository.MessageRepository, userRepo repository.UserRepository, productRepo repository.ProductRepository) *ChatService {
	return &ChatService{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// ConversationEntry is a conversation enriched for display: the other
// participant's public identity, the product context, the latest message
// and the viewer's unread count.
type ConversationEntry struct {
	Conversation chat.Conversation
	OtherUser    *user.User
	Product      *catalog.Product
	LastMessage  *chat.Message
	UnreadCount  int64
}

// MessageView is a message with its sender's identity attached.
type MessageView struct {
	Message chat.Message
	Sender  user.User
}

type CreateConversationInput struct {
	RequesterID   uuid.UUID
	ParticipantID uuid.UUID
	ProductID     *uuid.UUID
}

type SendMessageInput struct {
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	Content        string
	Type           string
	AttachmentURL  *string
	ReplyToID      *uuid.UUID
}

// CreateConversation is an idempotent get-or-create: at most one
// conversation exists per user pair per product context.
func (s *ChatService) CreateConversation(ctx context.Context, in CreateConversationInput) (ConversationEntry, error) {
	if in.RequesterID == in.ParticipantID {
		return ConversationEntry{}, fmt.Errorf("%w: cannot start a conversation with yourself", apperrors.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByID(ctx, in.ParticipantID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ConversationEntry{}, fmt.Errorf("%w: participant does not exist", apperrors.ErrNotFound)
		}
		return ConversationEntry{}, err
	}
	if in.ProductID != nil {
		if _, err := s.productRepo.GetByID(ctx, *in.ProductID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return ConversationEntry{}, fmt.Errorf("%w: product does not exist", apperrors.ErrNotFound)
			}
			return ConversationEntry{}, err
		}
	}

	existing, err := s.convRepo.FindDirect(ctx, in.RequesterID, in.ParticipantID, in.ProductID)
	if err == nil {
		return s.hydrateEntry(ctx, existing, in.RequesterID)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return ConversationEntry{}, err
	}

	convType := chat.TypeDirect
	if in.ProductID != nil {
		convType = chat.TypeProductInquiry
	}
	conv := chat.Conversation{
		ID:        uuid.New(),
		Type:      convType,
		PairKey:   chat.PairKey(in.RequesterID, in.ParticipantID, in.ProductID),
		ProductID: in.ProductID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = s.convRepo.CreateWithParticipants(ctx, &conv, []uuid.UUID{in.RequesterID, in.ParticipantID})
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		// Lost a create race on the pair key; the winner's conversation is
		// the answer.
		existing, ferr := s.convRepo.FindDirect(ctx, in.RequesterID, in.ParticipantID, in.ProductID)
		if ferr != nil {
			return ConversationEntry{}, ferr
		}
		return s.hydrateEntry(ctx, existing, in.RequesterID)
	}
	if err != nil {
		return ConversationEntry{}, err
	}

	return s.hydrateEntry(ctx, conv, in.RequesterID)
}

// ListConversations returns one page of the user's conversations ordered by
// most recent activity. With unreadOnly the filter is applied after the page
// is fetched, so a filtered page may hold fewer than limit entries even when
// more unread conversations exist on later pages.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, limit int) ([]ConversationEntry, int64, error) {
	page, limit = normalizePage(page, limit)

	conversations, total, err := s.convRepo.GetUserConversations(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	// One batched lookup for the page's counterpart users instead of a
	// query per conversation.
	otherIDs := make([]uuid.UUID, 0, len(conversations))
	for _, conv := range conversations {
		if other := conv.OtherParticipant(userID); other != nil {
			otherIDs = append(otherIDs, other.UserID)
		}
	}
	users := make(map[uuid.UUID]user.User, len(otherIDs))
	if len(otherIDs) > 0 {
		loaded, err := s.userRepo.GetByIDs(ctx, otherIDs)
		if err != nil {
			return nil, 0, err
		}
		for _, u := range loaded {
			users[u.ID] = u
		}
	}

	entries := make([]ConversationEntry, 0, len(conversations))
	for _, conv := range conversations {
		entry, err := s.hydrateEntryWith(ctx, conv, userID, users)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}

	if unreadOnly {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.UnreadCount > 0 {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
		total = int64(len(entries))
	}

	return entries, total, nil
}

// GetConversation is the authorization gate for every conversation-scoped
// operation: ErrNotFound for a missing id, ErrForbidden for a non-participant.
func (s *ChatService) GetConversation(ctx context.Context, conversationID, requesterID uuid.UUID) (chat.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return chat.Conversation{}, err
	}
	if !conv.HasParticipant(requesterID) {
		return chat.Conversation{}, apperrors.ErrForbidden
	}
	return conv, nil
}

// GetConversationEntry returns a single conversation enriched for display.
func (s *ChatService) GetConversationEntry(ctx context.Context, conversationID, requesterID uuid.UUID) (ConversationEntry, error) {
	conv, err := s.GetConversation(ctx, conversationID, requesterID)
	if err != nil {
		return ConversationEntry{}, err
	}
	return s.hydrateEntry(ctx, conv, requesterID)
}

// ListMessages returns one page of messages in chronological order.
// Page 1 holds the most recent messages; within a page ordering is
// oldest-first for display.
func (s *ChatService) ListMessages(ctx context.Context, conversationID, requesterID uuid.UUID, page, limit int) ([]chat.Message, int64, error) {
	if _, err := s.GetConversation(ctx, conversationID, requesterID); err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	messages, total, err := s.msgRepo.ListByConversation(ctx, conversationID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	// Storage returns newest-first; flip to reading order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, total, nil
}

func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (MessageView, error) {
	conv, err := s.GetConversation(ctx, in.ConversationID, in.SenderID)
	if err != nil {
		return MessageView{}, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return MessageView{}, fmt.Errorf("%w: message content is required", apperrors.ErrInvalidInput)
	}
	if len(content) > chat.MaxContentLength {
		return MessageView{}, fmt.Errorf("%w: message content exceeds %d characters", apperrors.ErrInvalidInput, chat.MaxContentLength)
	}

	msgType := in.Type
	if msgType == "" {
		msgType = chat.MessageText
	}
	if !chat.ValidMessageType(msgType) {
		return MessageView{}, fmt.Errorf("%w: unknown message type %q", apperrors.ErrInvalidInput, in.Type)
	}

	if in.ReplyToID != nil {
		target, err := s.msgRepo.GetByID(ctx, *in.ReplyToID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return MessageView{}, fmt.Errorf("%w: reply target does not exist", apperrors.ErrInvalidInput)
			}
			return MessageView{}, err
		}
		if target.ConversationID != conv.ID {
			return MessageView{}, fmt.Errorf("%w: reply target belongs to another conversation", apperrors.ErrInvalidInput)
		}
	}

	m := chat.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       in.SenderID,
		Content:        content,
		Type:           msgType,
		Status:         chat.StatusSent,
		AttachmentURL:  in.AttachmentURL,
		ReplyToID:      in.ReplyToID,
		CreatedAt:      time.Now(),
	}
	if err := s.msgRepo.Append(ctx, &m); err != nil {
		return MessageView{}, err
	}

	sender, err := s.userRepo.GetByID(ctx, in.SenderID)
	if err != nil {
		return MessageView{}, err
	}

	return MessageView{Message: m, Sender: sender}, nil
}

// MarkRead stamps the participant's last-read mark and transitions every
// message from the other participant to READ.
func (s *ChatService) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) (time.Time, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return time.Time{}, err
	}

	readAt := time.Now()
	if err := s.convRepo.UpdateLastRead(ctx, conversationID, userID, readAt); err != nil {
		return time.Time{}, err
	}
	if _, err := s.msgRepo.MarkConversationRead(ctx, conversationID, userID); err != nil {
		return time.Time{}, err
	}
	return readAt, nil
}

// MarkDelivered advances a message to DELIVERED on behalf of a participant.
// The message must belong to the conversation the caller named; a message id
// from another conversation is rejected, not advanced.
func (s *ChatService) MarkDelivered(ctx context.Context, conversationID, userID, messageID uuid.UUID) (chat.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return chat.Message{}, err
	}

	m, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return chat.Message{}, err
	}
	if m.ConversationID != conversationID {
		return chat.Message{}, fmt.Errorf("%w: message does not belong to this conversation", apperrors.ErrInvalidInput)
	}

	return s.UpdateMessageStatus(ctx, messageID, chat.StatusDelivered)
}

// UpdateMessageStatus enforces the one-directional SENT -> DELIVERED -> READ
// progression. A backward or equal transition is a no-op, not an error.
func (s *ChatService) UpdateMessageStatus(ctx context.Context, messageID uuid.UUID, status string) (chat.Message, error) {
	if chat.StatusRank(status) == 0 {
		return chat.Message{}, fmt.Errorf("%w: unknown message status %q", apperrors.ErrInvalidInput, status)
	}

	m, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return chat.Message{}, err
	}

	if chat.StatusRank(status) <= chat.StatusRank(m.Status) {
		return m, nil
	}

	changed, err := s.msgRepo.AdvanceStatus(ctx, messageID, status)
	if err != nil {
		return chat.Message{}, err
	}
	if changed {
		m.Status = status
		return m, nil
	}
	// Another writer advanced the message first; report its state.
	return s.msgRepo.GetByID(ctx, messageID)
}

// TotalUnread sums the unread count across every conversation the user
// participates in. Linear in the conversation count; a materialized counter
// is the upgrade path if that ever hurts.
func (s *ChatService) TotalUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	ids, err := s.convRepo.GetUserConversationIDs(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, id := range ids {
		count, err := s.msgRepo.CountUnread(ctx, id, userID)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (s *ChatService) DeleteConversation(ctx context.Context, conversationID, requesterID uuid.UUID) error {
	if _, err := s.GetConversation(ctx, conversationID, requesterID); err != nil {
		return err
	}
	return s.convRepo.Delete(ctx, conversationID)
}

// Participants returns the user ids in a conversation. Used by the realtime
// gateway to compute notification targets.
func (s *ChatService) Participants(ctx context.Context, conversationID uuid.UUID) ([]uuid.UUID, error) {
	participants, err := s.convRepo.GetParticipants(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.UserID)
	}
	return ids, nil
}

func (s *ChatService) hydrateEntry(ctx context.Context, conv chat.Conversation, viewerID uuid.UUID) (ConversationEntry, error) {
	return s.hydrateEntryWith(ctx, conv, viewerID, nil)
}

// hydrateEntryWith fills in the display fields of a conversation. A non-nil
// users map serves as a preloaded lookup for the counterpart user.
func (s *ChatService) hydrateEntryWith(ctx context.Context, conv chat.Conversation, viewerID uuid.UUID, users map[uuid.UUID]user.User) (ConversationEntry, error) {
	entry := ConversationEntry{Conversation: conv}

	if other := conv.OtherParticipant(viewerID); other != nil {
		if users != nil {
			if u, ok := users[other.UserID]; ok {
				entry.OtherUser = &u
			}
		} else {
			u, err := s.userRepo.GetByID(ctx, other.UserID)
			if err == nil {
				entry.OtherUser = &u
			} else if !errors.Is(err, apperrors.ErrNotFound) {
				return ConversationEntry{}, err
			}
		}
	}

	if conv.ProductID != nil {
		p, err := s.productRepo.GetByID(ctx, *conv.ProductID)
		if err == nil {
			entry.Product = &p
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return ConversationEntry{}, err
		}
	}

	last, err := s.msgRepo.LastMessage(ctx, conv.ID)
	if err == nil {
		entry.LastMessage = &last
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return ConversationEntry{}, err
	}

	unread, err := s.msgRepo.CountUnread(ctx, conv.ID, viewerID)
	if err != nil {
		return ConversationEntry{}, err
	}
	entry.UnreadCount = unread

	return entry, nil
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
