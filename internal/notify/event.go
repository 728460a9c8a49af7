package notify

import (
	"context"
	"time"
)

// DefaultSubject is the NATS subject run events are published on.
const DefaultSubject = "orgbuilder.runs"

// Event describes one finished run.
type Event struct {
	RunID           string    `json:"run_id"`
	Status          string    `json:"status"`
	SourceRoot      string    `json:"source_root"`
	DestinationRoot string    `json:"destination_root"`
	SiteRoot        string    `json:"site_root"`
	GraphPath       string    `json:"graph_path,omitempty"`
	Revision        string    `json:"revision,omitempty"`
	ExitCode        int       `json:"exit_code"`
	Convert         int       `json:"convert"`
	Copy            int       `json:"copy"`
	Skipped         int       `json:"skipped_passthrough"`
	DurationMS      int64     `json:"duration_ms"`
	Error           string    `json:"error,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Publisher delivers run events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NoopPublisher drops every event (default when notifications are not configured).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
