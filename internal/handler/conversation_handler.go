package handler

import (
	"net/http"
	"strconv"

	"unimarket/internal/services"
	"unimarket/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConversationHandler struct {
	service *services.ChatService
}

func NewConversationHandler(service *services.ChatService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// Create is an idempotent get-or-create; an existing conversation for the
// same pair and product comes back unchanged.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req httpdto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request")
		return
	}

	requesterID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondUnauthorized(c)
		return
	}

	participantID, err := uuid.Parse(req.ParticipantID)
	if err != nil {
		respondBadRequest(c, "invalid participant id")
		return
	}

	in := services.CreateConversationInput{
		RequesterID:   requesterID,
		ParticipantID: participantID,
	}
	if req.ProductID != "" {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			respondBadRequest(c, "invalid product id")
			return
		}
		in.ProductID = &productID
	}

	entry, err := h.service.CreateConversation(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromConversationEntry(entry)))
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondUnauthorized(c)
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	unreadOnly := c.Query("unread") == "true"

	entries, total, err := h.service.ListConversations(c.Request.Context(), userID, unreadOnly, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ConversationsResponse{
		Conversations: httpdto.FromConversationEntrySlice(entries),
		Total:         total,
	}))
}

func (h *ConversationHandler) GetByID(c *gin.Context) {
	userID, conversationID, ok := h.scope(c)
	if !ok {
		return
	}

	entry, err := h.service.GetConversationEntry(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversationEntry(entry)))
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	userID, conversationID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.service.DeleteConversation(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) ListMessages(c *gin.Context) {
	userID, conversationID, ok := h.scope(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	messages, total, err := h.service.ListMessages(c.Request.Context(), conversationID, userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessagesResponse{
		Messages: httpdto.FromMessageSlice(messages),
		Total:    total,
	}))
}

func (h *ConversationHandler) SendMessage(c *gin.Context) {
	userID, conversationID, ok := h.scope(c)
	if !ok {
		return
	}

	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request")
		return
	}

	in := services.SendMessageInput{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        req.Content,
		Type:           req.Type,
	}
	if req.AttachmentURL != "" {
		in.AttachmentURL = &req.AttachmentURL
	}
	if req.ReplyToID != "" {
		replyTo, err := uuid.Parse(req.ReplyToID)
		if err != nil {
			respondBadRequest(c, "invalid reply target id")
			return
		}
		in.ReplyToID = &replyTo
	}

	view, err := h.service.SendMessage(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessageView(view)))
}

func (h *ConversationHandler) MarkRead(c *gin.Context) {
	userID, conversationID, ok := h.scope(c)
	if !ok {
		return
	}

	if _, err := h.service.MarkRead(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ConversationHandler) UnreadCount(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondUnauthorized(c)
		return
	}

	total, err := h.service.TotalUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UnreadCountResponse{Unread: total}))
}

// scope extracts the authenticated user and the :id path parameter.
func (h *ConversationHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondUnauthorized(c)
		return uuid.Nil, uuid.Nil, false
	}
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid conversation id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, conversationID, true
}
