package mail

import (
	"context"

	"github.com/techelevate/platform/internal/logging"
)

// LogSender records messages instead of sending them. Bodies are not logged.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &LogSender{logger: logger.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	s.logger.Info(ctx, "mail not sent, log provider", "to", m.To, "subject", m.Subject)
	return nil
}
