package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/gisellucero1507/Proyecto-DInSAR/internal/dinsar"
)

// Auditor performs one load of every source and reports on it.
type Auditor interface {
	Audit(ctx context.Context) (dinsar.LoadReport, error)
}

// Scheduler periodically audits the configured sources so the load history
// stays current between page views.
type Scheduler struct {
	scheduler *gocron.Scheduler
	auditor   Auditor
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(auditor Auditor, interval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	s.WaitForScheduleAll()
	return &Scheduler{
		scheduler: s,
		auditor:   auditor,
		interval:  interval,
		timeout:   30 * time.Second,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first scheduled audit runs one interval after Start; use RunNow for
// an immediate one.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunNow(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: source audit scheduled", "every_minutes", minutes)
	return nil
}

// RunNow performs a single audit synchronously.
func (s *Scheduler) RunNow(ctx context.Context) {
	s.logger.Debug("scheduler: running source audit")

	report, err := s.auditor.Audit(ctx)
	if err != nil {
		s.logger.Error("scheduler: source audit failed", "load_id", report.ID, "error", err)
		return
	}
	s.logger.Info("scheduler: completed source audit",
		"load_id", report.ID,
		"displacement_rows", report.DisplacementRows,
		"precipitation_rows", report.PrecipitationRows,
		"rejected", report.Rejected(),
	)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
