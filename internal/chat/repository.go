package chat

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrMessageNotFound = errors.New("message not found")

type Repository interface {
	CreateMessage(ctx context.Context, m *Message) error
	GetMessages(ctx context.Context, matchID int64, before time.Time, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, matchID, readerID int64) error
	UnreadCount(ctx context.Context, matchID, userID int64) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateMessage(ctx context.Context, m *Message) error {
	query := `
        INSERT INTO chat_messages (match_id, sender_id, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	return r.db.QueryRowxContext(
		ctx, query,
		m.MatchID, m.SenderID, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *postgresRepository) GetMessages(ctx context.Context, matchID int64, before time.Time, limit int) ([]*Message, error) {
	var messages []*Message
	query := `
        SELECT * FROM chat_messages
        WHERE match_id = $1 AND created_at < $2
        ORDER BY created_at DESC
        LIMIT $3
    `

	err := r.db.SelectContext(ctx, &messages, query, matchID, before, limit)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return messages, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, matchID, readerID int64) error {
	query := `
        UPDATE chat_messages
        SET read_at = CURRENT_TIMESTAMP
        WHERE match_id = $1 AND sender_id != $2 AND read_at IS NULL
    `

	_, err := r.db.ExecContext(ctx, query, matchID, readerID)
	return err
}

func (r *postgresRepository) UnreadCount(ctx context.Context, matchID, userID int64) (int, error) {
	var count int
	query := `
        SELECT COUNT(*) FROM chat_messages
        WHERE match_id = $1 AND sender_id != $2 AND read_at IS NULL
    `

	err := r.db.GetContext(ctx, &count, query, matchID, userID)
	return count, err
}
