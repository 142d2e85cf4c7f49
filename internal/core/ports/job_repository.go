package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/job"
	"fulfillment/internal/core/domain/model/kernel"
)

// JobRepository defines the persistence contract for import jobs. Several
// worker replicas poll the same table, so claiming must be atomic: the
// conditional status flip either wins the row or touches nothing.
type JobRepository interface {
	// Add persists a newly submitted job.
	Add(ctx context.Context, aggregate *job.ImportJob) error

	// Update persists changes to an existing job.
	Update(ctx context.Context, aggregate *job.ImportJob) error

	// Get retrieves a job by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*job.ImportJob, error)

	// ClaimNextRunnable atomically flips the oldest Pending or Paused job to
	// Processing and returns it. Returns an ObjectNotFoundError when the
	// queue is empty. At most one caller wins any given job.
	ClaimNextRunnable(ctx context.Context, now time.Time) (*job.ImportJob, error)

	// FailStuckProcessing marks Processing jobs whose claim is older than
	// deadline as Failed with the given message, returning how many rows
	// were swept. Catches jobs orphaned by a crashed or killed worker.
	FailStuckProcessing(ctx context.Context, deadline time.Time, message string) (int64, error)
}
