package cart

import (
	"context"
	"errors"
	"time"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/pricing"
	"github.com/rs/zerolog"
)

// EventCartChanged is published after every persisted mutation.
const EventCartChanged = "cart.changed"

// Event describes a persisted cart mutation.
type Event struct {
	Type       string         `json:"type"`
	Op         string         `json:"op"`
	Key        string         `json:"key,omitempty"`
	Slot       string         `json:"slot"`
	Count      int            `json:"count"`
	Lines      int            `json:"lines"`
	Totals     pricing.Totals `json:"totals"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Notifier receives cart change events. Delivery failures are logged by
// the ledger and never undo the mutation.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Mutation transforms a cart. Returning an error aborts the cycle before
// anything is written.
type Mutation func(domain.Cart) (domain.Cart, error)

// ErrUnchanged may be returned by a Mutation that has nothing to do.
// Mutate then reports the current state without saving or notifying.
var ErrUnchanged = errors.New("cart unchanged")

// Result is the state after a mutation or read.
type Result struct {
	Cart   domain.Cart
	Count  int
	Totals pricing.Totals
	Events []Event
}

// Ledger couples a cart slot with pricing and change notification.
type Ledger struct {
	store    *Store
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewLedger(store *Store, notifier Notifier, logger zerolog.Logger) *Ledger {
	return &Ledger{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot loads the cart and derives its count and totals without writing.
func (l *Ledger) Snapshot(ctx context.Context) Result {
	c := l.store.Load(ctx)
	return Result{
		Cart:   c,
		Count:  TotalUnits(c),
		Totals: pricing.ComputeTotals(c),
	}
}

// Mutate loads the cart, applies fn, saves, recomputes derived values and
// publishes one EventCartChanged. key names the affected line, if any.
// An unreadable slot aborts before fn runs so the stored cart is not replaced.
func (l *Ledger) Mutate(ctx context.Context, op, key string, fn Mutation) (Result, error) {
	current, err := l.store.LoadStrict(ctx)
	if err != nil {
		return Result{}, err
	}

	next, err := fn(current)
	if errors.Is(err, ErrUnchanged) {
		return Result{
			Cart:   current,
			Count:  TotalUnits(current),
			Totals: pricing.ComputeTotals(current),
		}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if err := l.store.Save(ctx, next); err != nil {
		return Result{}, err
	}

	res := Result{
		Cart:   next,
		Count:  TotalUnits(next),
		Totals: pricing.ComputeTotals(next),
	}

	ev := Event{
		Type:       EventCartChanged,
		Op:         op,
		Key:        key,
		Slot:       l.store.Key(),
		Count:      res.Count,
		Lines:      len(next),
		Totals:     res.Totals,
		OccurredAt: l.now().UTC(),
	}
	res.Events = []Event{ev}

	if l.notifier != nil {
		if err := l.notifier.Notify(ctx, ev); err != nil {
			l.logger.Warn().Err(err).Str("op", op).Str("slot", ev.Slot).Msg("cart change notification failed")
		}
	}

	return res, nil
}
