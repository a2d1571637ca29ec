package mail

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// defaultFromName is used when from carries a bare address.
const defaultFromName = "TechElevate"

type SendGridSender struct {
	from *sgmail.Email
	send func(ctx context.Context, m *sgmail.SGMailV3) (int, error)
}

// NewSendGridSender accepts from as a bare address or in
// "Name <address>" form.
func NewSendGridSender(key, from string) (*SendGridSender, error) {
	sender, err := sgmail.ParseEmail(from)
	if err != nil {
		return nil, fmt.Errorf("%w: sendgrid from %q: %v", ErrInvalidConfig, from, err)
	}
	if sender.Name == "" {
		sender.Name = defaultFromName
	}

	client := sendgrid.NewSendClient(key)
	return &SendGridSender{
		from: sender,
		send: func(ctx context.Context, m *sgmail.SGMailV3) (int, error) {
			resp, err := client.SendWithContext(ctx, m)
			if err != nil {
				return 0, err
			}
			return resp.StatusCode, nil
		},
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, m Message) error {
	msg := sgmail.NewSingleEmail(
		s.from,
		m.Subject,
		sgmail.NewEmail("", m.To),
		m.Text,
		strings.ReplaceAll(html.EscapeString(m.Text), "\n", "<br>"),
	)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	status, err := s.send(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if status != http.StatusAccepted {
		return fmt.Errorf("sendgrid send: unexpected status %d", status)
	}
	return nil
}
