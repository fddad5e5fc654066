package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler runs callbacks on a fixed interval. Jobs run in singleton mode:
// a tick that arrives while the previous run is still going is skipped, so
// runs never overlap.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler that is not yet started.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ErrSchedule.WithCause(err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Every schedules run every interval and returns the job ID.
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, run func(ctx context.Context)) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { run(ctx) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", ErrSchedule.WithCause(err).WithContext("job", name)
	}
	slog.Info("Scheduled periodic run", slog.String("job", name), slog.Duration("interval", interval))
	return job.ID().String(), nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
