package chat

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub tracks connected websocket clients and routes frames between the
// two sides of a companion conversation.
type Hub struct {
	clients    map[int64]*Client
	clientsMux sync.RWMutex

	register   chan *Client
	unregister chan *Client

	service Service

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(service Service) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		service:    service,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	// One connection per user; a new socket replaces the old one.
	if old, exists := h.clients[client.userID]; exists {
		old.close()
	}
	h.clients[client.userID] = client

	log.Printf("User %d connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		client.close()
		delete(h.clients, client.userID)
		log.Printf("User %d disconnected. Total clients: %d", client.userID, len(h.clients))
	}
}

// SendToUser delivers a frame if the user is connected; offline users
// simply miss realtime frames and catch up over the HTTP history.
func (h *Hub) SendToUser(userID int64, message WSMessage) {
	h.clientsMux.RLock()
	client, exists := h.clients[userID]
	h.clientsMux.RUnlock()

	if !exists {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	select {
	case client.send <- data:
	default:
		go func() { h.unregister <- client }()
	}
}

// SendToMatch delivers a frame to both participants except the sender.
func (h *Hub) SendToMatch(ctx context.Context, matchID, senderID int64, message WSMessage) {
	user1, user2, err := h.service.Participants(ctx, matchID, senderID)
	if err != nil {
		return
	}

	if user1 != senderID {
		h.SendToUser(user1, message)
	}
	if user2 != senderID {
		h.SendToUser(user2, message)
	}
}

func (h *Hub) IsUserOnline(userID int64) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) ActiveConnections() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	for _, client := range h.clients {
		client.close()
	}
	h.clients = make(map[int64]*Client)
	h.clientsMux.Unlock()
}

func mustMarshalJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling: %v", err)
		return json.RawMessage(`{}`)
	}
	return data
}

func envelope(frameType WSMessageType, v interface{}) WSMessage {
	return WSMessage{
		Type:      string(frameType),
		Data:      mustMarshalJSON(v),
		Timestamp: time.Now(),
	}
}
