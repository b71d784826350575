package chat

import (
	"encoding/json"
	"time"
)

// Message is one chat message inside a companion match conversation.
type Message struct {
	ID        int64      `json:"id" db:"id"`
	MatchID   int64      `json:"match_id" db:"match_id"`
	SenderID  int64      `json:"sender_id" db:"sender_id"`
	Content   string     `json:"content" db:"content"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// WSMessageType discriminates frames on the websocket.
type WSMessageType string

const (
	WSTypeMessage    WSMessageType = "message"
	WSTypeTyping     WSMessageType = "typing"
	WSTypeStopTyping WSMessageType = "stop_typing"
	WSTypeRead       WSMessageType = "read"
)

// WSMessage is the websocket frame envelope.
type WSMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// SendMessagePayload is the data field of an inbound "message" frame.
type SendMessagePayload struct {
	MatchID int64  `json:"match_id"`
	Content string `json:"content"`
}

// TypingPayload is the data field of typing indicator frames.
type TypingPayload struct {
	MatchID int64 `json:"match_id"`
}

// ReadPayload is the data field of a "read" frame.
type ReadPayload struct {
	MatchID int64 `json:"match_id"`
}
