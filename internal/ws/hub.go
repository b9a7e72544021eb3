package ws

import (
	"sync"

	"unimarket/pkg/logger"

	"go.uber.org/zap"
)

// Hub routes frames between connected clients through named channels.
// Channels are either conversation rooms ("conversation:<id>") or personal
// channels ("user:<id>").
type Hub struct {
	clients     map[string]*Client            // connID -> client
	channels    map[string]map[string]*Client // channel -> connID -> client
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	mu          sync.RWMutex
	log         *logger.Logger
}

type subscription struct {
	client  *Client
	channel string
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		channels:    make(map[string]map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		log:         log,
	}
}

// Run processes hub membership events. Call once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case sub := <-h.subscribe:
			h.addSubscription(sub.client, sub.channel)
		case sub := <-h.unsubscribe:
			h.removeSubscription(sub.client, sub.channel)
		}
	}
}

func (h *Hub) Register(client *Client)   { h.register <- client }
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

func (h *Hub) Subscribe(client *Client, channel string) {
	h.subscribe <- subscription{client: client, channel: channel}
}

func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.unsubscribe <- subscription{client: client, channel: channel}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()
	h.log.Logger.Debug("ws client registered",
		zap.String("conn_id", client.ID),
		zap.String("user_id", client.UserID.String()))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	for _, channel := range client.Channels() {
		h.detachLocked(client, channel)
	}
	close(client.Send)
	h.mu.Unlock()
	h.log.Logger.Debug("ws client unregistered", zap.String("conn_id", client.ID))
}

func (h *Hub) addSubscription(client *Client, channel string) {
	h.mu.Lock()
	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[string]*Client)
	}
	h.channels[channel][client.ID] = client
	h.mu.Unlock()
	client.Subscribe(channel)
}

func (h *Hub) removeSubscription(client *Client, channel string) {
	h.mu.Lock()
	h.detachLocked(client, channel)
	h.mu.Unlock()
}

// detachLocked removes a client from a channel map; caller holds h.mu.
func (h *Hub) detachLocked(client *Client, channel string) {
	client.Unsubscribe(channel)
	if members, ok := h.channels[channel]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
}

// Broadcast sends a frame to every client subscribed to a channel.
func (h *Hub) Broadcast(channel string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.channels[channel] {
		client.SendMessage(msg)
	}
}

// BroadcastExcept sends a frame to a channel, skipping one connection.
func (h *Hub) BroadcastExcept(channel string, exceptConnID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.channels[channel] {
		if id == exceptConnID {
			continue
		}
		client.SendMessage(msg)
	}
}

// BroadcastAll sends a frame to every connected client.
func (h *Hub) BroadcastAll(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		client.SendMessage(msg)
	}
}

// ChannelUserIDs reports which users currently have a connection subscribed
// to the channel.
func (h *Hub) ChannelUserIDs(channel string) map[string]struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := make(map[string]struct{})
	for _, client := range h.channels[channel] {
		users[client.UserID.String()] = struct{}{}
	}
	return users
}
