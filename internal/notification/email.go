// internal/notification/email.go

package notification

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// Email represents an outbound notification email
type Email struct {
	To      string
	Subject string
	Body    string
}

// EmailService sends notification emails. Delivery is best-effort: callers
// bound the call with a context timeout and treat failures as diagnostics.
type EmailService interface {
	Send(ctx context.Context, email *Email) error
}

// SMTPEmailService implements email delivery over SMTP
type SMTPEmailService struct {
	from     string
	fromName string
	dialer   *gomail.Dialer
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(host string, port int, username, password, from, fromName string) (*SMTPEmailService, error) {
	if host == "" || username == "" || password == "" || from == "" {
		return nil, fmt.Errorf("incomplete SMTP configuration")
	}

	return &SMTPEmailService{
		from:     from,
		fromName: fromName,
		dialer:   gomail.NewDialer(host, port, username, password),
	}, nil
}

// Send sends a single email. gomail blocks on the dial, so the send runs in
// a goroutine and the context deadline wins the race on a slow provider.
func (s *SMTPEmailService) Send(ctx context.Context, email *Email) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", email.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send to %s: %w", email.To, ctx.Err())
	}
}

// SendGridEmailService implements email delivery using SendGrid
type SendGridEmailService struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

// NewSendGridEmailService creates a new SendGrid email service
func NewSendGridEmailService(apiKey, from, fromName string) (*SendGridEmailService, error) {
	if apiKey == "" || from == "" {
		return nil, fmt.Errorf("incomplete SendGrid configuration")
	}

	return &SendGridEmailService{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}, nil
}

// Send sends a single email via SendGrid
func (s *SendGridEmailService) Send(ctx context.Context, email *Email) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		email.Subject,
		mail.NewEmail("", email.To),
		email.Body,
		"",
	)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", email.To, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send to %s: status %d", email.To, resp.StatusCode)
	}
	return nil
}

// MockEmailService records emails instead of sending them. Used in
// development and tests.
type MockEmailService struct {
	mu         sync.Mutex
	SentEmails []*Email
}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{SentEmails: make([]*Email, 0)}
}

func (m *MockEmailService) Send(ctx context.Context, email *Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = append(m.SentEmails, email)
	log.Printf("Mock: sending email to %s: %s", email.To, email.Subject)
	return nil
}

// Sent returns a snapshot of recorded emails
func (m *MockEmailService) Sent() []*Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Email, len(m.SentEmails))
	copy(out, m.SentEmails)
	return out
}
