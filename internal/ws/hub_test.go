package ws

import (
	"testing"
	"time"

	"unimarket/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.DevelopmentMode)
}

// testClient returns a client with no underlying connection; frames are
// asserted straight off the buffered Send channel.
func testClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Send:     make(chan []byte, 256),
		channels: make(map[string]bool),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 2*time.Millisecond)
}

func TestHub_SubscribeAndBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	a := testClient(uuid.New())
	b := testClient(uuid.New())

	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "room1")
	hub.Subscribe(b, "room1")
	waitFor(t, func() bool { return a.IsSubscribed("room1") && b.IsSubscribed("room1") })

	hub.Broadcast("room1", []byte("hello"))
	assert.Equal(t, "hello", string(<-a.Send))
	assert.Equal(t, "hello", string(<-b.Send))

	hub.BroadcastExcept("room1", a.ID, []byte("not for a"))
	assert.Equal(t, "not for a", string(<-b.Send))
	assert.Empty(t, a.Send)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	a := testClient(uuid.New())
	hub.Register(a)
	hub.Subscribe(a, "room1")
	waitFor(t, func() bool { return a.IsSubscribed("room1") })

	hub.Unsubscribe(a, "room1")
	waitFor(t, func() bool { return !a.IsSubscribed("room1") })

	hub.Broadcast("room1", []byte("late"))
	assert.Empty(t, a.Send)
}

func TestHub_ChannelUserIDs(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	userA := uuid.New()
	userB := uuid.New()
	a1 := testClient(userA)
	a2 := testClient(userA)
	b := testClient(userB)

	for _, c := range []*Client{a1, a2, b} {
		hub.Register(c)
		hub.Subscribe(c, "room1")
	}
	waitFor(t, func() bool { return b.IsSubscribed("room1") && a2.IsSubscribed("room1") })

	users := hub.ChannelUserIDs("room1")
	assert.Len(t, users, 2)
	assert.Contains(t, users, userA.String())
	assert.Contains(t, users, userB.String())
}

func TestHub_UnregisterDetachesEverywhere(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	a := testClient(uuid.New())
	b := testClient(uuid.New())
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "room1")
	hub.Subscribe(b, "room1")
	waitFor(t, func() bool { return a.IsSubscribed("room1") && b.IsSubscribed("room1") })

	hub.Unregister(a)
	waitFor(t, func() bool {
		_, ok := hub.ChannelUserIDs("room1")[a.UserID.String()]
		return !ok
	})

	// The Send channel is closed on unregister.
	_, open := <-a.Send
	assert.False(t, open)

	hub.Broadcast("room1", []byte("still here"))
	assert.Equal(t, "still here", string(<-b.Send))
}

func TestClient_SendMessageDropsWhenFull(t *testing.T) {
	c := &Client{
		ID:       "c1",
		Send:     make(chan []byte, 1),
		channels: make(map[string]bool),
	}

	c.SendMessage([]byte("first"))
	// The channel is full; this must not block.
	c.SendMessage([]byte("second"))

	assert.Equal(t, "first", string(<-c.Send))
	assert.Empty(t, c.Send)
}
