package ws

import (
	"sync"
	"time"
)

type typingKey struct {
	conversationID string
	userID         string
}

// TypingTracker holds the active typing indicators. Each (conversation, user)
// pair carries a timer that fires an expiry callback if the client never
// sends an explicit stop.
type TypingTracker struct {
	mu      sync.Mutex
	timeout time.Duration
	timers  map[typingKey]*time.Timer
}

func NewTypingTracker(timeout time.Duration) *TypingTracker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TypingTracker{
		timeout: timeout,
		timers:  make(map[typingKey]*time.Timer),
	}
}

// Start marks the user as typing in the conversation. A repeated start
// resets the expiry timer. onExpire runs if the timeout elapses without a
// Stop for the same pair.
func (t *TypingTracker) Start(conversationID, userID string, onExpire func()) {
	key := typingKey{conversationID: conversationID, userID: userID}
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[key]; ok {
		timer.Reset(t.timeout)
		return
	}
	t.timers[key] = time.AfterFunc(t.timeout, func() {
		t.mu.Lock()
		_, live := t.timers[key]
		delete(t.timers, key)
		t.mu.Unlock()
		if live && onExpire != nil {
			onExpire()
		}
	})
}

// Stop cancels the typing indicator for the pair. It reports whether an
// indicator was actually active.
func (t *TypingTracker) Stop(conversationID, userID string) bool {
	key := typingKey{conversationID: conversationID, userID: userID}
	t.mu.Lock()
	defer t.mu.Unlock()
	timer, ok := t.timers[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(t.timers, key)
	return true
}

// StopAll cancels every typing indicator held by the user and returns the
// conversation IDs that were affected.
func (t *TypingTracker) StopAll(userID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var conversations []string
	for key, timer := range t.timers {
		if key.userID != userID {
			continue
		}
		timer.Stop()
		delete(t.timers, key)
		conversations = append(conversations, key.conversationID)
	}
	return conversations
}
