package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	importWorkerJob *ImportWorkerJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	processQueuedJobHandler commands.ProcessQueuedJobCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		importWorkerJob: NewImportWorkerJob(processQueuedJobHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.importWorkerJob.Start(); err != nil {
		return fmt.Errorf("failed to start import worker job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.importWorkerJob.Stop()
}
