package ws

import "sync"

// PresenceTracker keeps the in-memory registry of online users. A user is
// online while at least one of their connections is open.
type PresenceTracker struct {
	mu    sync.RWMutex
	conns map[string]map[string]struct{} // userID -> set of connIDs
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{conns: make(map[string]map[string]struct{})}
}

// Add records a connection for the user. It reports whether this was the
// user's first connection, i.e. the user just came online.
func (p *PresenceTracker) Add(userID, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.conns[userID]
	if !ok {
		set = make(map[string]struct{})
		p.conns[userID] = set
	}
	set[connID] = struct{}{}
	return len(set) == 1
}

// Remove drops a connection for the user. It reports whether this was the
// user's last connection, i.e. the user just went offline.
func (p *PresenceTracker) Remove(userID, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.conns[userID]
	if !ok {
		return false
	}
	if _, ok := set[connID]; !ok {
		return false
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(p.conns, userID)
		return true
	}
	return false
}

func (p *PresenceTracker) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns[userID]) > 0
}
