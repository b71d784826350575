package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/matching"
	"github.com/socialrhythm/rhythm-backend/internal/user"
)

// sendTimeout bounds each outbound delivery attempt.
const sendTimeout = 10 * time.Second

// UserSource resolves user contact details.
type UserSource interface {
	GetUser(ctx context.Context, id int64) (*user.User, error)
}

// Service fans match events out to users over the configured channels.
// It satisfies the matching package's Notifier interface.
type Service struct {
	users UserSource
	email EmailProvider
	sms   SMSProvider
}

func NewService(users UserSource, email EmailProvider, sms SMSProvider) *Service {
	return &Service{
		users: users,
		email: email,
		sms:   sms,
	}
}

// CompanionMatched notifies both sides of a new companion match.
// Delivery runs in the background; a failed send is logged, not returned.
func (s *Service) CompanionMatched(ctx context.Context, match *matching.CompanionMatch) {
	go s.notifyUser(match.User1ID, match.User2ID)
	go s.notifyUser(match.User2ID, match.User1ID)
}

func (s *Service) notifyUser(userID, otherID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	recipient, err := s.users.GetUser(ctx, userID)
	if err != nil {
		log.Printf("Match notification lookup failed for user %d: %v", userID, err)
		return
	}

	other, err := s.users.GetUser(ctx, otherID)
	if err != nil {
		log.Printf("Match notification lookup failed for user %d: %v", otherID, err)
		return
	}

	if s.email != nil && recipient.Email != nil {
		message := &EmailMessage{
			To:      *recipient.Email,
			Subject: "You have a new companion match",
			Body: fmt.Sprintf(
				"Hi %s,\n\nYou matched with %s. Open the app to start chatting and plan your next visit together.",
				recipient.DisplayName, other.DisplayName,
			),
		}

		if err := s.email.SendEmail(ctx, message); err != nil {
			log.Printf("Match notification email to user %d failed: %v", userID, err)
		}
	}

	if s.sms != nil && recipient.Phone != nil {
		text := &SMSMessage{
			To:   *recipient.Phone,
			Body: fmt.Sprintf("Social Rhythm: you matched with %s. Open the app to say hello.", other.DisplayName),
		}

		if err := s.sms.SendSMS(ctx, text); err != nil {
			log.Printf("Match notification SMS to user %d failed: %v", userID, err)
		}
	}
}
