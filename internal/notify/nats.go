package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/vitrine/internal/cart"
	"github.com/dukerupert/vitrine/internal/telemetry"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "vitrine.cart.changed"

// Publisher is the part of *nats.Conn the notifier uses.
type Publisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATS publishes each event as JSON on a subject suffixed with the op,
// e.g. vitrine.cart.changed.add.
type NATS struct {
	pub     Publisher
	subject string
	metrics *telemetry.BusinessMetrics
	close   func()
}

// NewNATS wraps an existing publisher.
func NewNATS(pub Publisher, subject string, metrics *telemetry.BusinessMetrics) *NATS {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATS{pub: pub, subject: subject, metrics: metrics, close: func() {}}
}

// ConnectNATS dials the server and returns a notifier that owns the
// connection. Close drains it.
func ConnectNATS(url, subject string, metrics *telemetry.BusinessMetrics, logger zerolog.Logger) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name("vitrine"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	n := NewNATS(nc, subject, metrics)
	n.close = func() {
		if err := nc.Drain(); err != nil {
			logger.Warn().Err(err).Msg("nats drain failed")
		}
	}
	return n, nil
}

// Subject returns the full subject an event is published on.
func (n *NATS) Subject(ev cart.Event) string {
	if ev.Op == "" {
		return n.subject
	}
	return n.subject + "." + ev.Op
}

func (n *NATS) Notify(ctx context.Context, ev cart.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode cart event: %w", err)
	}

	msg := nats.NewMsg(n.Subject(ev))
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	msg.Header.Set("Vitrine-Event", ev.Type)

	if err := n.pub.PublishMsg(msg); err != nil {
		n.metrics.RecordNotificationFailed("nats")
		return fmt.Errorf("publish cart event: %w", err)
	}
	return nil
}

func (n *NATS) Close() {
	n.close()
}
