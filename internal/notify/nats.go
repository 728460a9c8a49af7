package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/orgbuilder/internal/retry"
)

// natsConn is the subset of *nats.Conn used for publishing.
type natsConn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSPublisher publishes events on a NATS subject.
type NATSPublisher struct {
	conn    natsConn
	subject string
	policy  retry.Policy
}

// NewNATSPublisher connects to url. An empty subject means DefaultSubject.
// Failed publishes are retried according to policy.
func NewNATSPublisher(url, subject string, policy retry.Policy) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("orgbuilder"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS publisher connected", slog.String("url", url), slog.String("subject", subjectOrDefault(subject)))
	return newNATSPublisher(conn, subject, policy), nil
}

func newNATSPublisher(conn natsConn, subject string, policy retry.Policy) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subjectOrDefault(subject), policy: policy}
}

// Publish sends ev and waits for the server to acknowledge the flush, bounded
// by ctx's deadline or five seconds.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			slog.Debug("Retrying run event publish", slog.String("run_id", ev.RunID), slog.Int("attempt", attempt))
		}
		return p.publishOnce(ctx, data)
	})
	if err != nil {
		return err
	}
	slog.Debug("Published run event", slog.String("run_id", ev.RunID), slog.String("subject", p.subject))
	return nil
}

func (p *NATSPublisher) publishOnce(ctx context.Context, data []byte) error {
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := p.conn.FlushTimeout(timeout); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return DefaultSubject
	}
	return subject
}
