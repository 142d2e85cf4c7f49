package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ImportWorkerJob runs the queue worker tick on a fixed schedule. Each tick
// sweeps stale claims, then claims and processes at most one job; paused
// jobs are picked up again on a later tick.
type ImportWorkerJob struct {
	handler commands.ProcessQueuedJobCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewImportWorkerJob creates the scheduled queue worker. Uses
// ProcessQueuedJobCommandHandler to run one tick every 30 seconds.
func NewImportWorkerJob(handler commands.ProcessQueuedJobCommandHandler, logger *slog.Logger) *ImportWorkerJob {
	return &ImportWorkerJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "import_worker_job"),
	}
}

// Start begins the worker tick on its schedule.
func (j *ImportWorkerJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewProcessQueuedJobCommand()

		// An empty queue returns nil, so anything here is a real failure.
		if tickErr := j.handler.Handle(ctx, cmd); tickErr != nil {
			j.logger.ErrorContext(ctx, "Import worker tick failed", "error", tickErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Import worker started (ticking every 30 seconds)")
	return nil
}

// Stop stops the worker schedule. A tick already in flight finishes; the
// stale-claim sweep covers anything a killed process leaves behind.
func (j *ImportWorkerJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Import worker stopped")
}
