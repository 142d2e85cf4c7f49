package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetJobStatusQueryHandler reads one import job row directly from the
// database.
type GetJobStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetJobStatusQueryHandler creates a handler for job status queries.
// Requires a GORM database connection for query execution.
func NewGetJobStatusQueryHandler(db *gorm.DB) GetJobStatusQueryHandler {
	return GetJobStatusQueryHandler{db: db}
}

// Handle executes the lookup. Returns an ObjectNotFoundError when no job
// exists under the given id.
func (h GetJobStatusQueryHandler) Handle(
	ctx context.Context,
	query GetJobStatusQuery,
) (GetJobStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			job_type,
			status,
			processed_rows,
			total_rows,
			retry_count,
			artifact_url,
			failure_message,
			submitted_by,
			created_at,
			started_at,
			finished_at
		FROM import_jobs
		WHERE id = ?
	`, query.JobID().String()).Row()

	var resp GetJobStatusQueryResponse
	var id uuid.UUID
	var startedAt, finishedAt sql.NullTime

	err := row.Scan(
		&id,
		&resp.JobType,
		&resp.Status,
		&resp.ProcessedRows,
		&resp.TotalRows,
		&resp.RetryCount,
		&resp.ArtifactURL,
		&resp.FailureMessage,
		&resp.SubmittedBy,
		&resp.CreatedAt,
		&startedAt,
		&finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetJobStatusQueryResponse{}, errs.NewObjectNotFoundError("jobID", query.JobID().String())
	}
	if err != nil {
		return GetJobStatusQueryResponse{}, err
	}

	jobID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetJobStatusQueryResponse{}, err
	}
	resp.ID = jobID

	if startedAt.Valid {
		resp.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		resp.FinishedAt = &finishedAt.Time
	}

	return resp, nil
}
