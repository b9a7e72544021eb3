package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redisx "unimarket/internal/redis"
	"unimarket/internal/services"
	"unimarket/internal/transport/httpdto"
	apperrors "unimarket/pkg/errors"
	"unimarket/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const storeCallTimeout = 10 * time.Second

// Gateway translates websocket frames into chat service calls and fans the
// results back out to rooms, personal channels and the presence registry.
type Gateway struct {
	hub      *Hub
	presence *PresenceTracker
	typing   *TypingTracker
	chat     *services.ChatService
	lastSeen *redisx.LastSeenStore
	log      *logger.Logger
}

func NewGateway(hub *Hub, chat *services.ChatService, lastSeen *redisx.LastSeenStore, typingTimeout time.Duration, log *logger.Logger) *Gateway {
	return &Gateway{
		hub:      hub,
		presence: NewPresenceTracker(),
		typing:   NewTypingTracker(typingTimeout),
		chat:     chat,
		lastSeen: lastSeen,
		log:      log,
	}
}

func roomChannel(conversationID string) string { return "conversation:" + conversationID }
func userChannel(userID string) string         { return "user:" + userID }

// HandleConnect registers the connection and announces the user online if
// this is their first open connection.
func (g *Gateway) HandleConnect(client *Client) {
	g.hub.Register(client)
	g.hub.Subscribe(client, userChannel(client.UserID.String()))

	if g.presence.Add(client.UserID.String(), client.ID) {
		g.hub.BroadcastAll(encodeFrame(EventUserOnline, userOnlinePayload{UserID: client.UserID.String()}))
	}
}

// HandleDisconnect tears down the connection: typing indicators the user
// held are cancelled, and if this was their last connection the user goes
// offline with a last-seen stamp.
func (g *Gateway) HandleDisconnect(client *Client) {
	userID := client.UserID.String()

	for _, conversationID := range g.typing.StopAll(userID) {
		g.hub.BroadcastExcept(roomChannel(conversationID), client.ID,
			encodeFrame(EventTypingStop, typingPayload{ConversationID: conversationID, UserID: userID}))
	}

	if g.presence.Remove(userID, client.ID) {
		now := time.Now()
		if g.lastSeen != nil {
			ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
			if err := g.lastSeen.Set(ctx, userID, now); err != nil {
				g.log.Logger.Warn("last seen write failed", zap.Error(err))
			}
			cancel()
		}
		g.hub.BroadcastAll(encodeFrame(EventUserOffline, userOfflinePayload{UserID: userID, LastSeen: now}))
	}

	g.hub.Unregister(client)
}

// HandleFrame dispatches one inbound frame. Failures surface as error events
// on the originating connection only.
func (g *Gateway) HandleFrame(client *Client, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		g.sendError(client, "malformed frame")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
	defer cancel()

	switch frame.Event {
	case EventConversationJoin:
		g.handleJoin(ctx, client, frame.Data)
	case EventConversationLeave:
		g.handleLeave(client, frame.Data)
	case EventMessageSend:
		g.handleSend(ctx, client, frame.Data)
	case EventMessageDelivered:
		g.handleDelivered(ctx, client, frame.Data)
	case EventMessageRead:
		g.handleRead(ctx, client, frame.Data)
	case EventTypingStart:
		g.handleTyping(client, frame.Data, true)
	case EventTypingStop:
		g.handleTyping(client, frame.Data, false)
	case EventCheckOnline:
		g.handleCheckOnline(ctx, client, frame.Data)
	default:
		g.sendError(client, "unknown event: "+frame.Event)
	}
}

func (g *Gateway) handleJoin(ctx context.Context, client *Client, data json.RawMessage) {
	ref, ok := g.parseConversationRef(client, data)
	if !ok {
		return
	}

	// Membership gate: only participants may enter the room.
	if _, err := g.chat.GetConversation(ctx, ref, client.UserID); err != nil {
		g.sendServiceError(client, err)
		return
	}

	g.hub.Subscribe(client, roomChannel(ref.String()))
	client.SendMessage(encodeFrame(EventConversationJoined, conversationRef{ConversationID: ref.String()}))
}

func (g *Gateway) handleLeave(client *Client, data json.RawMessage) {
	ref, ok := g.parseConversationRef(client, data)
	if !ok {
		return
	}
	conversationID := ref.String()

	if g.typing.Stop(conversationID, client.UserID.String()) {
		g.hub.BroadcastExcept(roomChannel(conversationID), client.ID,
			encodeFrame(EventTypingStop, typingPayload{ConversationID: conversationID, UserID: client.UserID.String()}))
	}

	g.hub.Unsubscribe(client, roomChannel(conversationID))
	client.SendMessage(encodeFrame(EventConversationLeft, conversationRef{ConversationID: conversationID}))
}

func (g *Gateway) handleSend(ctx context.Context, client *Client, data json.RawMessage) {
	var payload sendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(client, "malformed payload")
		return
	}
	conversationID, err := uuid.Parse(payload.ConversationID)
	if err != nil {
		g.sendError(client, "invalid conversation id")
		return
	}

	in := services.SendMessageInput{
		ConversationID: conversationID,
		SenderID:       client.UserID,
		Content:        payload.Content,
		Type:           payload.Type,
		AttachmentURL:  payload.AttachmentURL,
	}
	if payload.ReplyToID != nil {
		replyTo, err := uuid.Parse(*payload.ReplyToID)
		if err != nil {
			g.sendError(client, "invalid reply target id")
			return
		}
		in.ReplyToID = &replyTo
	}

	view, err := g.chat.SendMessage(ctx, in)
	if err != nil {
		g.sendServiceError(client, err)
		return
	}

	// Sending a message ends the sender's typing indicator.
	if g.typing.Stop(payload.ConversationID, client.UserID.String()) {
		g.hub.BroadcastExcept(roomChannel(payload.ConversationID), client.ID,
			encodeFrame(EventTypingStop, typingPayload{ConversationID: payload.ConversationID, UserID: client.UserID.String()}))
	}

	dto := httpdto.FromMessageView(view)
	room := roomChannel(payload.ConversationID)
	g.hub.Broadcast(room, encodeFrame(EventMessageNew, dto))

	// Participants without a connection in the room get a notification on
	// their personal channel instead.
	participants, err := g.chat.Participants(ctx, conversationID)
	if err != nil {
		g.log.Logger.Warn("notification fan-out skipped", zap.Error(err))
		return
	}
	inRoom := g.hub.ChannelUserIDs(room)
	notification := encodeFrame(EventMessageNotification, notificationPayload{
		ConversationID: payload.ConversationID,
		Message:        dto,
	})
	for _, participantID := range participants {
		if participantID == client.UserID {
			continue
		}
		if _, present := inRoom[participantID.String()]; present {
			continue
		}
		g.hub.Broadcast(userChannel(participantID.String()), notification)
	}
}

func (g *Gateway) handleDelivered(ctx context.Context, client *Client, data json.RawMessage) {
	var payload deliveredPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(client, "malformed payload")
		return
	}
	messageID, err := uuid.Parse(payload.MessageID)
	if err != nil {
		g.sendError(client, "invalid message id")
		return
	}
	conversationID, err := uuid.Parse(payload.ConversationID)
	if err != nil {
		g.sendError(client, "invalid conversation id")
		return
	}

	m, err := g.chat.MarkDelivered(ctx, conversationID, client.UserID, messageID)
	if err != nil {
		g.sendServiceError(client, err)
		return
	}

	g.hub.Broadcast(roomChannel(conversationID.String()),
		encodeFrame(EventMessageStatus, messageStatusPayload{MessageID: m.ID.String(), Status: m.Status}))
}

func (g *Gateway) handleRead(ctx context.Context, client *Client, data json.RawMessage) {
	ref, ok := g.parseConversationRef(client, data)
	if !ok {
		return
	}

	readAt, err := g.chat.MarkRead(ctx, ref, client.UserID)
	if err != nil {
		g.sendServiceError(client, err)
		return
	}

	g.hub.Broadcast(roomChannel(ref.String()), encodeFrame(EventMessagesRead, messagesReadPayload{
		ConversationID: ref.String(),
		ReadBy:         client.UserID.String(),
		ReadAt:         readAt,
	}))
}

func (g *Gateway) handleTyping(client *Client, data json.RawMessage, start bool) {
	var payload typingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(client, "malformed payload")
		return
	}
	if _, err := uuid.Parse(payload.ConversationID); err != nil {
		g.sendError(client, "invalid conversation id")
		return
	}

	room := roomChannel(payload.ConversationID)
	if !client.IsSubscribed(room) {
		g.sendError(client, "join the conversation first")
		return
	}

	userID := client.UserID.String()
	event := typingPayload{ConversationID: payload.ConversationID, UserID: userID}

	if start {
		g.typing.Start(payload.ConversationID, userID, func() {
			// Expired without an explicit stop; synthesize one.
			g.hub.BroadcastExcept(room, client.ID, encodeFrame(EventTypingStop, event))
		})
		g.hub.BroadcastExcept(room, client.ID, encodeFrame(EventTypingStart, event))
		return
	}

	if g.typing.Stop(payload.ConversationID, userID) {
		g.hub.BroadcastExcept(room, client.ID, encodeFrame(EventTypingStop, event))
	}
}

func (g *Gateway) handleCheckOnline(ctx context.Context, client *Client, data json.RawMessage) {
	var payload checkOnlinePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		g.sendError(client, "malformed payload")
		return
	}

	statuses := make([]onlineStatus, 0, len(payload.UserIDs))
	for _, id := range payload.UserIDs {
		status := onlineStatus{UserID: id, Online: g.presence.IsOnline(id)}
		if !status.Online && g.lastSeen != nil {
			if at, err := g.lastSeen.Get(ctx, id); err == nil && !at.IsZero() {
				status.LastSeen = &at
			}
		}
		statuses = append(statuses, status)
	}

	client.SendMessage(encodeFrame(EventCheckOnline, statuses))
}

func (g *Gateway) parseConversationRef(client *Client, data json.RawMessage) (uuid.UUID, bool) {
	var ref conversationRef
	if err := json.Unmarshal(data, &ref); err != nil {
		g.sendError(client, "malformed payload")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(ref.ConversationID)
	if err != nil {
		g.sendError(client, "invalid conversation id")
		return uuid.Nil, false
	}
	return id, true
}

func (g *Gateway) sendError(client *Client, message string) {
	client.SendMessage(encodeFrame(EventError, errorPayload{Message: message}))
}

// sendServiceError maps service failures onto client-safe error messages.
func (g *Gateway) sendServiceError(client *Client, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		g.sendError(client, "conversation not found")
	case errors.Is(err, apperrors.ErrForbidden):
		g.sendError(client, "not a participant of this conversation")
	case errors.Is(err, apperrors.ErrInvalidInput):
		g.sendError(client, err.Error())
	default:
		g.log.Logger.Error("ws operation failed", zap.Error(err))
		g.sendError(client, "request failed")
	}
}
