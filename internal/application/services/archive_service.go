package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/harmonysync/backend/internal/domain/entities"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
	"github.com/harmonysync/backend/internal/ports"
)

// ArchiveService relocates old completed tasks from the live store into the
// append-only archive log. It runs as the single background loop of the
// process and can also be triggered directly.
type ArchiveService struct {
	taskRepo  ports.TaskRepository
	archive   ports.ArchiveStore
	logger    *logger.Logger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	sweptTotal  prometheus.Counter
	sweepErrors prometheus.Counter
	lastSweep   prometheus.Gauge
}

// NewArchiveService creates a new archive service
func NewArchiveService(taskRepo ports.TaskRepository, archive ports.ArchiveStore, retention, interval time.Duration, logger *logger.Logger) *ArchiveService {
	return &ArchiveService{
		taskRepo:  taskRepo,
		archive:   archive,
		logger:    logger.WithComponent("archive"),
		retention: retention,
		interval:  interval,
		now:       time.Now,
		sweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archive_swept_tasks_total",
			Help: "Tasks moved into the archive log",
		}),
		sweepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "archive_sweep_errors_total",
			Help: "Failed archive sweeps",
		}),
		lastSweep: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "archive_last_sweep_timestamp_seconds",
			Help: "Unix time of the last completed sweep",
		}),
	}
}

// WithClock overrides the service clock. Tests use it to age tasks.
func (s *ArchiveService) WithClock(now func() time.Time) *ArchiveService {
	s.now = now
	return s
}

// Collectors returns the service's metrics for registry registration.
func (s *ArchiveService) Collectors() []prometheus.Collector {
	return []prometheus.Collector{s.sweptTotal, s.sweepErrors, s.lastSweep}
}

// Run sweeps once immediately, then on every interval tick until ctx is
// cancelled. Sweep failures are logged and swallowed; the loop never stops
// on error.
func (s *ArchiveService) Run(ctx context.Context) {
	s.logger.Infow("Archive sweeper started",
		"interval", s.interval.String(),
		"retention", s.retention.String(),
	)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("Archive sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ArchiveService) sweep(ctx context.Context) {
	archived, err := s.SweepNow(ctx)
	s.logger.LogSweep(archived, err)
	if err != nil {
		s.sweepErrors.Inc()
		return
	}
	s.sweptTotal.Add(float64(archived))
	s.lastSweep.SetToCurrentTime()
}

// SweepNow performs one sweep and returns how many tasks were archived.
//
// The identifier set is captured at selection time and the deletion targets
// exactly that set, so a task completing concurrently can never be deleted
// without having been archived first.
func (s *ArchiveService) SweepNow(ctx context.Context) (int, error) {
	now := s.now()
	cutoff := now.Add(-s.retention)

	tasks, err := s.taskRepo.ListCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(tasks))
	frozen := make([]entities.ArchivedTask, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
		frozen = append(frozen, task.Archive(now))
	}

	if err := s.archive.Append(ctx, frozen); err != nil {
		return 0, err
	}

	if err := s.taskRepo.DeleteByIDs(ctx, ids); err != nil {
		return 0, err
	}

	return len(ids), nil
}
