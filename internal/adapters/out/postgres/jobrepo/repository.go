package jobrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/job"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormJobRepository implements JobRepository using GORM.
type GormJobRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormJobRepository creates a new GORM job repository.
func NewGormJobRepository(db *gorm.DB, tracker aggregateTracker) *GormJobRepository {
	return &GormJobRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly submitted job to the database.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.ImportJob) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing job to the database. Select("*") forces
// zero-valued columns to be written; a requeue resets the cursor and must
// not leave the old value behind.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.ImportJob) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a job by ID.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.ImportJob, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ClaimNextRunnable atomically claims the oldest Pending or Paused job.
// SKIP LOCKED makes competing workers pass over rows another transaction
// already locked, so at most one caller wins any given job. Returns an
// ObjectNotFoundError when the queue is empty.
//
// Callers must run this inside a transaction; the row lock is what keeps
// the status flip exclusive.
func (r *GormJobRepository) ClaimNextRunnable(ctx context.Context, now time.Time) (*job.ImportJob, error) {
	var dto JobDTO
	result := r.db.WithContext(ctx).Raw(`
		SELECT *
		FROM import_jobs
		WHERE status IN (?, ?)
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`, job.StatusPending.String(), job.StatusPaused.String()).Scan(&dto)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("job", "next runnable")
	}

	claimed, err := toDomain(dto)
	if err != nil {
		return nil, err
	}
	if err = claimed.Start(now); err != nil {
		return nil, err
	}
	if err = r.Update(ctx, claimed); err != nil {
		return nil, err
	}

	return claimed, nil
}

// FailStuckProcessing marks Processing jobs whose claim is older than
// deadline as Failed, returning how many rows were swept. Catches jobs
// orphaned by a crashed or killed worker; the message is what job status
// queries will show for them.
func (r *GormJobRepository) FailStuckProcessing(ctx context.Context, deadline time.Time, message string) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE import_jobs
		SET status = ?, failure_message = ?, finished_at = NOW()
		WHERE status = ? AND started_at < ?
	`, job.StatusFailed.String(), message, job.StatusProcessing.String(), deadline)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
