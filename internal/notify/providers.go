package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailMessage is one outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SMSMessage is one outbound text message.
type SMSMessage struct {
	To   string
	Body string
}

// EmailProvider defines the email provider interface
type EmailProvider interface {
	SendEmail(ctx context.Context, message *EmailMessage) error
}

// SMSProvider defines the SMS provider interface
type SMSProvider interface {
	SendSMS(ctx context.Context, message *SMSMessage) error
}

// SendGridEmailProvider implements EmailProvider using SendGrid
type SendGridEmailProvider struct {
	apiKey string
	from   string
}

func NewSendGridEmailProvider(apiKey, from string) EmailProvider {
	return &SendGridEmailProvider{
		apiKey: apiKey,
		from:   from,
	}
}

func (p *SendGridEmailProvider) SendEmail(ctx context.Context, message *EmailMessage) error {
	from := mail.NewEmail("Social Rhythm", p.from)
	to := mail.NewEmail("", message.To)

	email := mail.NewSingleEmail(from, message.Subject, to, message.Body, "")
	client := sendgrid.NewSendClient(p.apiKey)

	response, err := client.Send(email)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}

	return nil
}

// TwilioSMSProvider implements SMSProvider using Twilio
type TwilioSMSProvider struct {
	client      *twilio.RestClient
	phoneNumber string
}

func NewTwilioSMSProvider(accountSID, authToken, phoneNumber string) SMSProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSProvider{
		client:      client,
		phoneNumber: phoneNumber,
	}
}

func (p *TwilioSMSProvider) SendSMS(ctx context.Context, message *SMSMessage) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(message.To)
	params.SetFrom(p.phoneNumber)
	params.SetBody(message.Body)

	_, err := p.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS via Twilio: %w", err)
	}

	return nil
}

// MockEmailProvider implements EmailProvider for testing. Deliveries
// run on background goroutines, so access is synchronized.
type MockEmailProvider struct {
	mu         sync.Mutex
	sentEmails []EmailMessage
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{sentEmails: make([]EmailMessage, 0)}
}

func (p *MockEmailProvider) SendEmail(ctx context.Context, message *EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sentEmails = append(p.sentEmails, *message)
	return nil
}

// SentEmails returns a copy of everything sent so far.
func (p *MockEmailProvider) SentEmails() []EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EmailMessage, len(p.sentEmails))
	copy(out, p.sentEmails)
	return out
}

// MockSMSProvider implements SMSProvider for testing.
type MockSMSProvider struct {
	mu           sync.Mutex
	sentMessages []SMSMessage
}

func NewMockSMSProvider() *MockSMSProvider {
	return &MockSMSProvider{sentMessages: make([]SMSMessage, 0)}
}

func (p *MockSMSProvider) SendSMS(ctx context.Context, message *SMSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sentMessages = append(p.sentMessages, *message)
	return nil
}

// SentMessages returns a copy of everything sent so far.
func (p *MockSMSProvider) SentMessages() []SMSMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SMSMessage, len(p.sentMessages))
	copy(out, p.sentMessages)
	return out
}
