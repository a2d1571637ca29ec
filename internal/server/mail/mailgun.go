package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 30 * time.Second

type MailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
	send func(ctx context.Context, m *mailgun.Message) (string, string, error)
}

func NewMailgunSender(domain, key, from string) *MailgunSender {
	mg := mailgun.NewMailgun(domain, key)
	return &MailgunSender{mg: mg, from: from, send: mg.Send}
}

func (s *MailgunSender) Send(ctx context.Context, m Message) error {
	msg := s.mg.NewMessage(s.from, m.Subject, m.Text)
	if err := msg.AddRecipient(m.To); err != nil {
		return fmt.Errorf("mailgun recipient: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := s.send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
