package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/matching"
)

var (
	ErrNotParticipant = errors.New("user is not part of this conversation")
	ErrMatchInactive  = errors.New("companion match is no longer active")
	ErrEmptyMessage   = errors.New("message content is empty")
)

// maxContentLength caps message length in runes, not bytes.
const (
	defaultMessageLimit = 50
	maxContentLength    = 2000
)

// MatchSource resolves companion matches; conversations exist only
// between actively matched users.
type MatchSource interface {
	GetMatch(ctx context.Context, id int64) (*matching.CompanionMatch, error)
}

type Service interface {
	SendMessage(ctx context.Context, matchID, senderID int64, content string) (*Message, error)
	GetMessages(ctx context.Context, matchID, userID int64, before time.Time, limit int) ([]*Message, error)
	MarkRead(ctx context.Context, matchID, readerID int64) error
	UnreadCount(ctx context.Context, matchID, userID int64) (int, error)

	// Participants resolves both sides of a conversation, verifying the
	// caller belongs to it.
	Participants(ctx context.Context, matchID, userID int64) (int64, int64, error)
}

type service struct {
	repo    Repository
	matches MatchSource
}

func NewService(repo Repository, matches MatchSource) Service {
	return &service{repo: repo, matches: matches}
}

func (s *service) SendMessage(ctx context.Context, matchID, senderID int64, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if runes := []rune(content); len(runes) > maxContentLength {
		content = string(runes[:maxContentLength])
	}

	if _, _, err := s.Participants(ctx, matchID, senderID); err != nil {
		return nil, err
	}

	m := &Message{
		MatchID:  matchID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.repo.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	recordMessageSent()
	return m, nil
}

func (s *service) GetMessages(ctx context.Context, matchID, userID int64, before time.Time, limit int) ([]*Message, error) {
	if _, _, err := s.Participants(ctx, matchID, userID); err != nil {
		return nil, err
	}

	if before.IsZero() {
		before = time.Now()
	}
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	return s.repo.GetMessages(ctx, matchID, before, limit)
}

func (s *service) MarkRead(ctx context.Context, matchID, readerID int64) error {
	if _, _, err := s.Participants(ctx, matchID, readerID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, matchID, readerID)
}

func (s *service) UnreadCount(ctx context.Context, matchID, userID int64) (int, error) {
	if _, _, err := s.Participants(ctx, matchID, userID); err != nil {
		return 0, err
	}
	return s.repo.UnreadCount(ctx, matchID, userID)
}

func (s *service) Participants(ctx context.Context, matchID, userID int64) (int64, int64, error) {
	match, err := s.matches.GetMatch(ctx, matchID)
	if err != nil {
		return 0, 0, err
	}
	if !match.IsActive {
		return 0, 0, ErrMatchInactive
	}
	if match.User1ID != userID && match.User2ID != userID {
		return 0, 0, ErrNotParticipant
	}

	return match.User1ID, match.User2ID, nil
}
