package mail

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSender stops calling a failing provider for a while so that
// registrations do not queue behind mail timeouts.
type BreakerSender struct {
	next Sender
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerSender(name string, next Sender) *BreakerSender {
	return &BreakerSender{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "mail-" + name,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Send returns gobreaker.ErrOpenState without calling the provider while
// the breaker is open.
func (s *BreakerSender) Send(ctx context.Context, m Message) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Send(ctx, m)
	})
	return err
}

func (s *BreakerSender) State() gobreaker.State {
	return s.cb.State()
}
