// Package mail delivers transactional e-mail through Mailgun or SendGrid.
// Delivery is best effort: callers log failures and carry on.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/techelevate/platform/internal/logging"
)

// Providers accepted by New.
const (
	ProviderLog      = "log"
	ProviderMailgun  = "mailgun"
	ProviderSendGrid = "sendgrid"
)

var ErrInvalidConfig = errors.New("invalid mail configuration")

type Message struct {
	To      string
	Subject string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Config struct {
	Provider       string
	From           string
	MailgunDomain  string
	MailgunKey     string
	SendGridKey    string
	BreakerEnabled bool
}

// New builds the sender for cfg.Provider. An empty provider means log.
// Remote providers are wrapped in a circuit breaker when enabled.
func New(cfg Config, logger logging.Logger) (Sender, error) {
	var s Sender
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderLog:
		return NewLogSender(logger), nil
	case ProviderMailgun:
		if cfg.MailgunDomain == "" || cfg.MailgunKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("%w: mailgun needs domain, key and from", ErrInvalidConfig)
		}
		s = NewMailgunSender(cfg.MailgunDomain, cfg.MailgunKey, cfg.From)
	case ProviderSendGrid:
		if cfg.SendGridKey == "" || cfg.From == "" {
			return nil, fmt.Errorf("%w: sendgrid needs key and from", ErrInvalidConfig)
		}
		sg, err := NewSendGridSender(cfg.SendGridKey, cfg.From)
		if err != nil {
			return nil, err
		}
		s = sg
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}

	if cfg.BreakerEnabled {
		s = NewBreakerSender(cfg.Provider, s)
	}
	return s, nil
}

// Welcome is sent after registration.
func Welcome(to, username string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to TechElevate",
		Text:    fmt.Sprintf("Hi %s,\n\nyour TechElevate account is ready.\n", username),
	}
}
