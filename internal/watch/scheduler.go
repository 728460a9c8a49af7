package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// scheduler wraps gocron for the periodic fallback rebuild.
type scheduler struct {
	s gocron.Scheduler
}

func newScheduler() (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &scheduler{s: s}, nil
}

// schedulePeriodic runs task every interval. Returns the job ID.
func (s *scheduler) schedulePeriodic(interval time.Duration, task func()) (string, error) {
	job, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	return job.ID().String(), nil
}

func (s *scheduler) start() {
	slog.Info("Starting scheduler")
	s.s.Start()
}

func (s *scheduler) stop() error {
	slog.Info("Stopping scheduler")
	return s.s.Shutdown()
}
