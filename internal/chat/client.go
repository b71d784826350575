package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Client is one connected websocket user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID int64
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
	}
}

func (c *Client) Start() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.processFrame(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued frames into the same websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) processFrame(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Error unmarshaling frame: %v", err)
		return
	}

	ctx := context.Background()

	switch WSMessageType(msg.Type) {
	case WSTypeMessage:
		c.handleNewMessage(ctx, msg.Data)

	case WSTypeTyping, WSTypeStopTyping:
		c.handleTyping(ctx, WSMessageType(msg.Type), msg.Data)

	case WSTypeRead:
		c.handleRead(ctx, msg.Data)

	default:
		log.Printf("Unknown frame type: %s", msg.Type)
	}
}

func (c *Client) handleNewMessage(ctx context.Context, data json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	message, err := c.hub.service.SendMessage(ctx, payload.MatchID, c.userID, payload.Content)
	if err != nil {
		log.Printf("Send message failed for user %d: %v", c.userID, err)
		return
	}

	frame := envelope(WSTypeMessage, message)
	c.hub.SendToMatch(ctx, payload.MatchID, c.userID, frame)
	c.hub.SendToUser(c.userID, frame) // echo back with the assigned ID
}

func (c *Client) handleTyping(ctx context.Context, frameType WSMessageType, data json.RawMessage) {
	var payload TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	frame := envelope(frameType, map[string]interface{}{
		"match_id": payload.MatchID,
		"user_id":  c.userID,
	})
	c.hub.SendToMatch(ctx, payload.MatchID, c.userID, frame)
}

func (c *Client) handleRead(ctx context.Context, data json.RawMessage) {
	var payload ReadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	if err := c.hub.service.MarkRead(ctx, payload.MatchID, c.userID); err != nil {
		return
	}

	frame := envelope(WSTypeRead, map[string]interface{}{
		"match_id": payload.MatchID,
		"user_id":  c.userID,
	})
	c.hub.SendToMatch(ctx, payload.MatchID, c.userID, frame)
}

func (c *Client) close() {
	close(c.send)
}
