package chat

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/socialrhythm/rhythm-backend/internal/matching"
)

type fakeRepo struct {
	messages []*Message
	readFor  int64
}

func (f *fakeRepo) CreateMessage(ctx context.Context, m *Message) error {
	m.ID = int64(len(f.messages) + 1)
	m.CreatedAt = time.Now()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeRepo) GetMessages(ctx context.Context, matchID int64, before time.Time, limit int) ([]*Message, error) {
	return f.messages, nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, matchID, readerID int64) error {
	f.readFor = readerID
	return nil
}

func (f *fakeRepo) UnreadCount(ctx context.Context, matchID, userID int64) (int, error) {
	return len(f.messages), nil
}

type fakeMatches struct {
	match *matching.CompanionMatch
}

func (f *fakeMatches) GetMatch(ctx context.Context, id int64) (*matching.CompanionMatch, error) {
	if f.match == nil || f.match.ID != id {
		return nil, matching.ErrMatchNotFound
	}
	return f.match, nil
}

func activeMatch() *matching.CompanionMatch {
	return &matching.CompanionMatch{ID: 1, User1ID: 10, User2ID: 20, IsActive: true}
}

func TestSendMessageBetweenMatchedUsers(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMatches{match: activeMatch()})

	m, err := svc.SendMessage(context.Background(), 1, 10, "  hello  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Content != "hello" {
		t.Errorf("content should be trimmed, got %q", m.Content)
	}
	if m.ID == 0 {
		t.Error("message should get an ID")
	}
}

func TestSendMessageRejectsOutsiders(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeMatches{match: activeMatch()})

	_, err := svc.SendMessage(context.Background(), 1, 99, "hi")
	if err != ErrNotParticipant {
		t.Errorf("got err %v, want ErrNotParticipant", err)
	}
}

func TestSendMessageInactiveMatch(t *testing.T) {
	match := activeMatch()
	match.IsActive = false
	svc := NewService(&fakeRepo{}, &fakeMatches{match: match})

	_, err := svc.SendMessage(context.Background(), 1, 10, "hi")
	if err != ErrMatchInactive {
		t.Errorf("got err %v, want ErrMatchInactive", err)
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeMatches{match: activeMatch()})

	_, err := svc.SendMessage(context.Background(), 1, 10, "   ")
	if err != ErrEmptyMessage {
		t.Errorf("got err %v, want ErrEmptyMessage", err)
	}
}

func TestSendMessageTruncatesLongContent(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMatches{match: activeMatch()})

	m, err := svc.SendMessage(context.Background(), 1, 20, strings.Repeat("a", maxContentLength+100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Content) != maxContentLength {
		t.Errorf("content length: got %d, want %d", len(m.Content), maxContentLength)
	}
}

func TestSendMessageTruncatesAtRuneBoundary(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeMatches{match: activeMatch()})

	m, err := svc.SendMessage(context.Background(), 1, 20, strings.Repeat("混", maxContentLength+100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := utf8.RuneCountInString(m.Content); got != maxContentLength {
		t.Errorf("rune count: got %d, want %d", got, maxContentLength)
	}
	if !utf8.ValidString(m.Content) {
		t.Error("truncation split a multi-byte character")
	}
	if !strings.HasSuffix(m.Content, "混") {
		t.Errorf("content should end on a whole character, got tail %q", m.Content[len(m.Content)-3:])
	}
}

func TestParticipantsResolution(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeMatches{match: activeMatch()})

	u1, u2, err := svc.Participants(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u1 != 10 || u2 != 20 {
		t.Errorf("participants: got %d/%d, want 10/20", u1, u2)
	}
}
