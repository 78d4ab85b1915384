// Package notify delivers cart change events to their sinks.
package notify

import (
	"context"
	"errors"

	"github.com/dukerupert/vitrine/internal/cart"
	"github.com/rs/zerolog"
)

// Nop discards events.
type Nop struct{}

func (Nop) Notify(context.Context, cart.Event) error { return nil }

// Log writes each event at debug level.
type Log struct {
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Notify(ctx context.Context, ev cart.Event) error {
	l.logger.Debug().
		Str("type", ev.Type).
		Str("op", ev.Op).
		Str("key", ev.Key).
		Str("slot", ev.Slot).
		Int("count", ev.Count).
		Str("total", ev.Totals.Total.StringFixed(2)).
		Msg("cart changed")
	return nil
}

// Multi fans an event out to every sink. All sinks are attempted; their
// errors are joined.
type Multi []cart.Notifier

func (m Multi) Notify(ctx context.Context, ev cart.Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
