package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/chat"
	"unimarket/internal/domain/user"
	"unimarket/internal/repository"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory repository fakes. They mirror the persistence contracts closely
// enough to exercise the service logic without a database.

type fakeConversationRepo struct {
	convs map[uuid.UUID]*chat.Conversation
	// findDirectMisses makes FindDirect report ErrNotFound for the next N
	// calls even when a match exists, to simulate losing a create race.
	findDirectMisses int
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{convs: make(map[uuid.UUID]*chat.Conversation)}
}

func (r *fakeConversationRepo) CreateWithParticipants(ctx context.Context, c *chat.Conversation, userIDs []uuid.UUID) error {
	// Mirrors the unique index on conversations.pair_key.
	for _, existing := range r.convs {
		if existing.PairKey == c.PairKey {
			return apperrors.ErrAlreadyExists
		}
	}
	for _, id := range userIDs {
		c.Participants = append(c.Participants, chat.Participant{
			ID:             uuid.New(),
			ConversationID: c.ID,
			UserID:         id,
			CreatedAt:      time.Now(),
		})
	}
	clone := *c
	r.convs[c.ID] = &clone
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error) {
	c, ok := r.convs[id]
	if !ok {
		return chat.Conversation{}, apperrors.ErrNotFound
	}
	return *c, nil
}

func (r *fakeConversationRepo) FindDirect(ctx context.Context, userA, userB uuid.UUID, productID *uuid.UUID) (chat.Conversation, error) {
	if r.findDirectMisses > 0 {
		r.findDirectMisses--
		return chat.Conversation{}, apperrors.ErrNotFound
	}
	key := chat.PairKey(userA, userB, productID)
	for _, c := range r.convs {
		if c.PairKey == key {
			return *c, nil
		}
	}
	return chat.Conversation{}, apperrors.ErrNotFound
}

func (r *fakeConversationRepo) GetUserConversations(ctx context.Context, userID uuid.UUID, page, limit int) ([]chat.Conversation, int64, error) {
	var out []chat.Conversation
	for _, c := range r.convs {
		if c.HasParticipant(userID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	total := int64(len(out))
	start := (page - 1) * limit
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeConversationRepo) GetUserConversationIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, c := range r.convs {
		if c.HasParticipant(userID) {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.convs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.convs, id)
	return nil
}

func (r *fakeConversationRepo) GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]chat.Participant, error) {
	c, ok := r.convs[conversationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c.Participants, nil
}

func (r *fakeConversationRepo) UpdateLastRead(ctx context.Context, conversationID, userID uuid.UUID, readAt time.Time) error {
	c, ok := r.convs[conversationID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			at := readAt
			c.Participants[i].LastReadAt = &at
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeMessageRepo struct {
	msgs  map[uuid.UUID]*chat.Message
	convs *fakeConversationRepo
}

func newFakeMessageRepo(convs *fakeConversationRepo) *fakeMessageRepo {
	return &fakeMessageRepo{msgs: make(map[uuid.UUID]*chat.Message), convs: convs}
}

func (r *fakeMessageRepo) Append(ctx context.Context, m *chat.Message) error {
	c, ok := r.convs.convs[m.ConversationID]
	if !ok {
		return apperrors.ErrNotFound
	}
	clone := *m
	r.msgs[m.ID] = &clone
	c.UpdatedAt = m.CreatedAt
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (chat.Message, error) {
	m, ok := r.msgs[id]
	if !ok {
		return chat.Message{}, apperrors.ErrNotFound
	}
	return *m, nil
}

func (r *fakeMessageRepo) byConversation(conversationID uuid.UUID) []chat.Message {
	var out []chat.Message
	for _, m := range r.msgs {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeMessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID, page, limit int) ([]chat.Message, int64, error) {
	all := r.byConversation(conversationID)
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeMessageRepo) LastMessage(ctx context.Context, conversationID uuid.UUID) (chat.Message, error) {
	all := r.byConversation(conversationID)
	if len(all) == 0 {
		return chat.Message{}, apperrors.ErrNotFound
	}
	return all[0], nil
}

func (r *fakeMessageRepo) CountUnread(ctx context.Context, conversationID, userID uuid.UUID) (int64, error) {
	c, ok := r.convs.convs[conversationID]
	if !ok {
		return 0, apperrors.ErrNotFound
	}
	var lastRead *time.Time
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			lastRead = c.Participants[i].LastReadAt
		}
	}
	var count int64
	for _, m := range r.msgs {
		if m.ConversationID != conversationID || m.SenderID == userID {
			continue
		}
		if lastRead == nil || m.CreatedAt.After(*lastRead) {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	var changed int64
	for _, m := range r.msgs {
		if m.ConversationID == conversationID && m.SenderID != readerID && m.Status != chat.StatusRead {
			m.Status = chat.StatusRead
			changed++
		}
	}
	return changed, nil
}

func (r *fakeMessageRepo) AdvanceStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	m, ok := r.msgs[id]
	if !ok {
		return false, nil
	}
	if chat.StatusRank(status) > chat.StatusRank(m.Status) {
		m.Status = status
		return true, nil
	}
	return false, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]user.User, error) {
	var out []user.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]catalog.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, apperrors.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p catalog.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]catalog.Product, int64, error) {
	var out []catalog.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type chatEnv struct {
	svc      *ChatService
	convRepo *fakeConversationRepo
	msgRepo  *fakeMessageRepo
	alice    uuid.UUID
	bob      uuid.UUID
	carol    uuid.UUID
	product  uuid.UUID
}

func newChatEnv(t *testing.T) *chatEnv {
	t.Helper()

	convRepo := newFakeConversationRepo()
	msgRepo := newFakeMessageRepo(convRepo)
	userRepo := &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
	productRepo := &fakeProductRepo{products: make(map[uuid.UUID]catalog.Product)}

	env := &chatEnv{
		svc:      NewChatService(convRepo, msgRepo, userRepo, productRepo),
		convRepo: convRepo,
		msgRepo:  msgRepo,
		alice:    uuid.New(),
		bob:      uuid.New(),
		carol:    uuid.New(),
		product:  uuid.New(),
	}

	for i, id := range []uuid.UUID{env.alice, env.bob, env.carol} {
		userRepo.users[id] = user.User{
			ID:          id,
			Email:       fmt.Sprintf("user%d@example.com", i),
			DisplayName: fmt.Sprintf("User %d", i),
			CreatedAt:   time.Now(),
		}
	}
	productRepo.products[env.product] = catalog.Product{
		ID:       env.product,
		SellerID: env.bob,
		Title:    "Calculus Textbook",
		Status:   catalog.ProductActive,
	}

	return env
}

func (e *chatEnv) mustCreate(t *testing.T, requester, participant uuid.UUID, productID *uuid.UUID) ConversationEntry {
	t.Helper()
	entry, err := e.svc.CreateConversation(context.Background(), CreateConversationInput{
		RequesterID:   requester,
		ParticipantID: participant,
		ProductID:     productID,
	})
	require.NoError(t, err)
	return entry
}

func TestCreateConversation_Idempotent(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	first := env.mustCreate(t, env.alice, env.bob, nil)
	assert.Equal(t, chat.TypeDirect, first.Conversation.Type)
	assert.Equal(t, chat.PairKey(env.alice, env.bob, nil), first.Conversation.PairKey)

	// Same pair, other direction: must resolve to the same conversation.
	second := env.mustCreate(t, env.bob, env.alice, nil)
	assert.Equal(t, first.Conversation.ID, second.Conversation.ID)

	// A product-scoped conversation between the same pair is distinct.
	inquiry := env.mustCreate(t, env.alice, env.bob, &env.product)
	assert.NotEqual(t, first.Conversation.ID, inquiry.Conversation.ID)
	assert.Equal(t, chat.TypeProductInquiry, inquiry.Conversation.Type)

	again := env.mustCreate(t, env.alice, env.bob, &env.product)
	assert.Equal(t, inquiry.Conversation.ID, again.Conversation.ID)

	ctxIDs, err := env.convRepo.GetUserConversationIDs(ctx, env.alice)
	require.NoError(t, err)
	assert.Len(t, ctxIDs, 2)
}

func TestCreateConversation_WithSelf(t *testing.T) {
	env := newChatEnv(t)

	_, err := env.svc.CreateConversation(context.Background(), CreateConversationInput{
		RequesterID:   env.alice,
		ParticipantID: env.alice,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateConversation_UnknownParticipantAndProduct(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateConversation(ctx, CreateConversationInput{
		RequesterID:   env.alice,
		ParticipantID: uuid.New(),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	missing := uuid.New()
	_, err = env.svc.CreateConversation(ctx, CreateConversationInput{
		RequesterID:   env.alice,
		ParticipantID: env.bob,
		ProductID:     &missing,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateConversation_LostRaceResolvesToWinner(t *testing.T) {
	env := newChatEnv(t)

	winner := env.mustCreate(t, env.alice, env.bob, nil)

	// The next FindDirect misses, so the service attempts a create, hits the
	// duplicate, and must re-fetch the winner.
	env.convRepo.findDirectMisses = 1
	loser := env.mustCreate(t, env.bob, env.alice, nil)
	assert.Equal(t, winner.Conversation.ID, loser.Conversation.ID)
}

func TestGetConversation_Authorization(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	entry := env.mustCreate(t, env.alice, env.bob, nil)

	_, err := env.svc.GetConversation(ctx, entry.Conversation.ID, env.carol)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = env.svc.GetConversation(ctx, uuid.New(), env.alice)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	conv, err := env.svc.GetConversation(ctx, entry.Conversation.ID, env.alice)
	require.NoError(t, err)
	assert.Equal(t, entry.Conversation.ID, conv.ID)
}

func TestSendMessage_Validation(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	entry := env.mustCreate(t, env.alice, env.bob, nil)
	convID := entry.Conversation.ID

	_, err := env.svc.SendMessage(ctx, SendMessageInput{ConversationID: convID, SenderID: env.carol, Content: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = env.svc.SendMessage(ctx, SendMessageInput{ConversationID: convID, SenderID: env.alice, Content: "   "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: convID,
		SenderID:       env.alice,
		Content:        strings.Repeat("a", chat.MaxContentLength+1),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: convID,
		SenderID:       env.alice,
		Content:        "hi",
		Type:           "VOICE",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	view, err := env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: convID,
		SenderID:       env.alice,
		Content:        "  hello bob  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello bob", view.Message.Content)
	assert.Equal(t, chat.StatusSent, view.Message.Status)
	assert.Equal(t, chat.MessageText, view.Message.Type)
	assert.Equal(t, env.alice, view.Sender.ID)
}

func TestSendMessage_ReplyMustStayInConversation(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	direct := env.mustCreate(t, env.alice, env.bob, nil)
	inquiry := env.mustCreate(t, env.alice, env.bob, &env.product)

	orig, err := env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: direct.Conversation.ID,
		SenderID:       env.alice,
		Content:        "original",
	})
	require.NoError(t, err)

	// Replying from another conversation is rejected.
	_, err = env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: inquiry.Conversation.ID,
		SenderID:       env.bob,
		Content:        "cross reply",
		ReplyToID:      &orig.Message.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	reply, err := env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: direct.Conversation.ID,
		SenderID:       env.bob,
		Content:        "proper reply",
		ReplyToID:      &orig.Message.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, reply.Message.ReplyToID)
	assert.Equal(t, orig.Message.ID, *reply.Message.ReplyToID)
}

func TestListMessages_OldestFirstWithinPage(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	entry := env.mustCreate(t, env.alice, env.bob, nil)
	convID := entry.Conversation.ID

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		m := chat.Message{
			ID:             uuid.New(),
			ConversationID: convID,
			SenderID:       env.alice,
			Content:        fmt.Sprintf("m%d", i),
			Type:           chat.MessageText,
			Status:         chat.StatusSent,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.msgRepo.Append(ctx, &m))
	}

	_, _, err := env.svc.ListMessages(ctx, convID, env.carol, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Page 1 holds the two newest, ordered oldest-first for display.
	page1, total, err := env.svc.ListMessages(ctx, convID, env.alice, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "m3", page1[0].Content)
	assert.Equal(t, "m4", page1[1].Content)

	page2, _, err := env.svc.ListMessages(ctx, convID, env.alice, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "m1", page2[0].Content)
	assert.Equal(t, "m2", page2[1].Content)
}

func TestUnreadLifecycle(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	entry := env.mustCreate(t, env.alice, env.bob, nil)
	convID := entry.Conversation.ID

	for i := 0; i < 3; i++ {
		_, err := env.svc.SendMessage(ctx, SendMessageInput{
			ConversationID: convID,
			SenderID:       env.bob,
			Content:        fmt.Sprintf("ping %d", i),
		})
		require.NoError(t, err)
	}

	// The sender's own messages never count as unread for the sender.
	bobUnread, err := env.svc.TotalUnread(ctx, env.bob)
	require.NoError(t, err)
	assert.EqualValues(t, 0, bobUnread)

	aliceUnread, err := env.svc.TotalUnread(ctx, env.alice)
	require.NoError(t, err)
	assert.EqualValues(t, 3, aliceUnread)

	_, err = env.svc.MarkRead(ctx, convID, env.carol)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	readAt, err := env.svc.MarkRead(ctx, convID, env.alice)
	require.NoError(t, err)
	assert.False(t, readAt.IsZero())

	aliceUnread, err = env.svc.TotalUnread(ctx, env.alice)
	require.NoError(t, err)
	assert.EqualValues(t, 0, aliceUnread)

	// Bob's messages were transitioned to READ.
	messages, _, err := env.svc.ListMessages(ctx, convID, env.alice, 1, 10)
	require.NoError(t, err)
	for _, m := range messages {
		assert.Equal(t, chat.StatusRead, m.Status)
	}

	// Messages arriving after the read mark count again.
	_, err = env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: convID,
		SenderID:       env.bob,
		Content:        "one more",
	})
	require.NoError(t, err)

	aliceUnread, err = env.svc.TotalUnread(ctx, env.alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, aliceUnread)
}

func TestUpdateMessageStatus_Monotonic(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	entry := env.mustCreate(t, env.alice, env.bob, nil)
	view, err := env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: entry.Conversation.ID,
		SenderID:       env.alice,
		Content:        "status check",
	})
	require.NoError(t, err)
	msgID := view.Message.ID

	_, err = env.svc.UpdateMessageStatus(ctx, msgID, "SEEN")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = env.svc.UpdateMessageStatus(ctx, uuid.New(), chat.StatusRead)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	m, err := env.svc.UpdateMessageStatus(ctx, msgID, chat.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, chat.StatusDelivered, m.Status)

	m, err = env.svc.UpdateMessageStatus(ctx, msgID, chat.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, chat.StatusRead, m.Status)

	// Backward transitions are no-ops, never errors.
	m, err = env.svc.UpdateMessageStatus(ctx, msgID, chat.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, chat.StatusRead, m.Status)

	m, err = env.svc.UpdateMessageStatus(ctx, msgID, chat.StatusSent)
	require.NoError(t, err)
	assert.Equal(t, chat.StatusRead, m.Status)
}

func TestListConversations_UnreadFilter(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	read := env.mustCreate(t, env.alice, env.bob, nil)
	unread := env.mustCreate(t, env.alice, env.bob, &env.product)

	for _, convID := range []uuid.UUID{read.Conversation.ID, unread.Conversation.ID} {
		_, err := env.svc.SendMessage(ctx, SendMessageInput{
			ConversationID: convID,
			SenderID:       env.bob,
			Content:        "hello",
		})
		require.NoError(t, err)
	}

	_, err := env.svc.MarkRead(ctx, read.Conversation.ID, env.alice)
	require.NoError(t, err)

	all, total, err := env.svc.ListConversations(ctx, env.alice, false, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	// The unread filter applies to the fetched page, and the reported total
	// is the filtered count.
	filtered, total, err := env.svc.ListConversations(ctx, env.alice, true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered, 1)
	assert.Equal(t, unread.Conversation.ID, filtered[0].Conversation.ID)
	assert.EqualValues(t, 1, filtered[0].UnreadCount)
	require.NotNil(t, filtered[0].LastMessage)
	assert.Equal(t, "hello", filtered[0].LastMessage.Content)
}

func TestListConversations_OrderedByActivity(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	first := env.mustCreate(t, env.alice, env.bob, nil)
	second := env.mustCreate(t, env.alice, env.bob, &env.product)

	// Touch the first conversation last; it should lead the listing.
	time.Sleep(time.Millisecond)
	_, err := env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: first.Conversation.ID,
		SenderID:       env.bob,
		Content:        "bump",
	})
	require.NoError(t, err)

	entries, _, err := env.svc.ListConversations(ctx, env.alice, false, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.Conversation.ID, entries[0].Conversation.ID)
	assert.Equal(t, second.Conversation.ID, entries[1].Conversation.ID)

	// Counterpart identities are hydrated for every page entry.
	for _, entry := range entries {
		require.NotNil(t, entry.OtherUser)
		assert.Equal(t, env.bob, entry.OtherUser.ID)
	}
}

func TestMarkDelivered_ScopedToConversation(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	conv := env.mustCreate(t, env.alice, env.bob, nil)
	other := env.mustCreate(t, env.alice, env.carol, nil)

	view, err := env.svc.SendMessage(ctx, SendMessageInput{
		ConversationID: conv.Conversation.ID,
		SenderID:       env.alice,
		Content:        "for bob only",
	})
	require.NoError(t, err)

	// Naming another conversation must not advance the message.
	_, err = env.svc.MarkDelivered(ctx, other.Conversation.ID, env.alice, view.Message.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	stored, err := env.msgRepo.GetByID(ctx, view.Message.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.StatusSent, stored.Status)

	// Nor may a non-participant of the message's conversation.
	_, err = env.svc.MarkDelivered(ctx, conv.Conversation.ID, env.carol, view.Message.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	m, err := env.svc.MarkDelivered(ctx, conv.Conversation.ID, env.bob, view.Message.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.StatusDelivered, m.Status)
}

func TestDeleteConversation(t *testing.T) {
	env := newChatEnv(t)
	ctx := context.Background()

	entry := env.mustCreate(t, env.alice, env.bob, nil)

	err := env.svc.DeleteConversation(ctx, entry.Conversation.ID, env.carol)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, env.svc.DeleteConversation(ctx, entry.Conversation.ID, env.alice))

	_, err = env.svc.GetConversation(ctx, entry.Conversation.ID, env.alice)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
