package persistence

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

type BreakerSettings struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// BreakerAdapter stops calling a failing backend until Timeout has passed.
type BreakerAdapter struct {
	next   Adapter
	reads  *gobreaker.CircuitBreaker[[]byte]
	writes *gobreaker.CircuitBreaker[struct{}]
}

func WithBreaker(next Adapter, st BreakerSettings, logger *slog.Logger) *BreakerAdapter {
	threshold := st.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	settings := func(suffix string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        st.Name + suffix,
			MaxRequests: st.MaxRequests,
			Interval:    st.Interval,
			Timeout:     st.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("storage circuit breaker state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String())
			},
		}
	}

	return &BreakerAdapter{
		next:   next,
		reads:  gobreaker.NewCircuitBreaker[[]byte](settings(".get")),
		writes: gobreaker.NewCircuitBreaker[struct{}](settings(".set")),
	}
}

func (b *BreakerAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return b.reads.Execute(func() ([]byte, error) {
		return b.next.Get(ctx, key)
	})
}

func (b *BreakerAdapter) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.writes.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Set(ctx, key, value)
	})
	return err
}

func (b *BreakerAdapter) Ping(ctx context.Context) error {
	if p, ok := b.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (b *BreakerAdapter) Unwrap() Adapter {
	return b.next
}
