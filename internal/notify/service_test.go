package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/socialrhythm/rhythm-backend/internal/matching"
	"github.com/socialrhythm/rhythm-backend/internal/user"
)

type fakeUsers struct {
	users map[int64]*user.User
}

func (f *fakeUsers) GetUser(ctx context.Context, id int64) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func strPtr(v string) *string { return &v }

func waitForEmails(p *MockEmailProvider, want int) []EmailMessage {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := p.SentEmails(); len(sent) >= want {
			return sent
		}
		time.Sleep(10 * time.Millisecond)
	}
	return p.SentEmails()
}

func waitForSMS(p *MockSMSProvider, want int) []SMSMessage {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := p.SentMessages(); len(sent) >= want {
			return sent
		}
		time.Sleep(10 * time.Millisecond)
	}
	return p.SentMessages()
}

func TestCompanionMatchedEmailsBothSides(t *testing.T) {
	users := &fakeUsers{users: map[int64]*user.User{
		1: {ID: 1, DisplayName: "Aki", Email: strPtr("aki@example.com")},
		2: {ID: 2, DisplayName: "Ren", Email: strPtr("ren@example.com")},
	}}
	email := NewMockEmailProvider()
	svc := NewService(users, email, nil)

	svc.CompanionMatched(context.Background(), &matching.CompanionMatch{User1ID: 1, User2ID: 2})

	sent := waitForEmails(email, 2)
	if len(sent) != 2 {
		t.Fatalf("got %d emails, want 2", len(sent))
	}

	recipients := map[string]bool{}
	for _, m := range sent {
		recipients[m.To] = true
		if !strings.Contains(m.Body, "matched with") {
			t.Errorf("unexpected body: %q", m.Body)
		}
	}
	if !recipients["aki@example.com"] || !recipients["ren@example.com"] {
		t.Errorf("both users should be emailed, got %v", recipients)
	}
}

func TestCompanionMatchedTextsUsersWithPhone(t *testing.T) {
	users := &fakeUsers{users: map[int64]*user.User{
		1: {ID: 1, DisplayName: "Aki", Phone: strPtr("+819012345678")},
		2: {ID: 2, DisplayName: "Ren", Phone: strPtr("+818098765432")},
	}}
	sms := NewMockSMSProvider()
	svc := NewService(users, nil, sms)

	svc.CompanionMatched(context.Background(), &matching.CompanionMatch{User1ID: 1, User2ID: 2})

	sent := waitForSMS(sms, 2)
	if len(sent) != 2 {
		t.Fatalf("got %d SMS, want 2", len(sent))
	}

	recipients := map[string]bool{}
	for _, m := range sent {
		recipients[m.To] = true
		if !strings.Contains(m.Body, "matched with") {
			t.Errorf("unexpected body: %q", m.Body)
		}
	}
	if !recipients["+819012345678"] || !recipients["+818098765432"] {
		t.Errorf("both users should be texted, got %v", recipients)
	}
}

func TestCompanionMatchedTextsWhenEmailMissing(t *testing.T) {
	users := &fakeUsers{users: map[int64]*user.User{
		1: {ID: 1, DisplayName: "Aki", Phone: strPtr("+819012345678")},
		2: {ID: 2, DisplayName: "Ren", Email: strPtr("ren@example.com"), Phone: strPtr("+818098765432")},
	}}
	email := NewMockEmailProvider()
	sms := NewMockSMSProvider()
	svc := NewService(users, email, sms)

	svc.CompanionMatched(context.Background(), &matching.CompanionMatch{User1ID: 1, User2ID: 2})

	texts := waitForSMS(sms, 2)
	if len(texts) != 2 {
		t.Fatalf("got %d SMS, want 2", len(texts))
	}
	emails := waitForEmails(email, 1)
	if len(emails) != 1 {
		t.Fatalf("got %d emails, want 1", len(emails))
	}
	if emails[0].To != "ren@example.com" {
		t.Errorf("email sent to %s", emails[0].To)
	}
}

func TestCompanionMatchedSkipsUsersWithoutEmail(t *testing.T) {
	users := &fakeUsers{users: map[int64]*user.User{
		1: {ID: 1, DisplayName: "Aki"},
		2: {ID: 2, DisplayName: "Ren", Email: strPtr("ren@example.com")},
	}}
	email := NewMockEmailProvider()
	svc := NewService(users, email, nil)

	svc.CompanionMatched(context.Background(), &matching.CompanionMatch{User1ID: 1, User2ID: 2})

	sent := waitForEmails(email, 1)
	if len(sent) != 1 {
		t.Fatalf("got %d emails, want 1", len(sent))
	}
	if sent[0].To != "ren@example.com" {
		t.Errorf("email sent to %s", sent[0].To)
	}
}
