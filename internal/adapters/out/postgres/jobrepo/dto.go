// Package jobrepo provides data transfer objects and mapping functions for
// import job persistence. The table doubles as the work queue, so claiming
// relies on row locking rather than a separate broker.
package jobrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/job"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO represents the database structure for persisting import jobs.
type JobDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	JobType        string
	Status         string `gorm:"index"`
	FilePath       string
	SubmittedBy    string
	RetryCount     int
	ProcessedRows  int
	TotalRows      int
	CursorLastRow  int
	ArtifactURL    string
	FailureMessage string
	CreatedAt      time.Time `gorm:"index"`
	StartedAt      *time.Time
	FinishedAt     *time.Time
}

// TableName specifies the database table name for import jobs.
func (JobDTO) TableName() string {
	return "import_jobs"
}

// fromDomain converts a job aggregate to its database representation.
func fromDomain(aggregate *job.ImportJob) JobDTO {
	return JobDTO{
		ID:             aggregate.ID().Bytes(),
		JobType:        aggregate.JobType().String(),
		Status:         aggregate.Status().String(),
		FilePath:       aggregate.FilePath(),
		SubmittedBy:    aggregate.SubmittedBy(),
		RetryCount:     aggregate.RetryCount(),
		ProcessedRows:  aggregate.ProcessedRows(),
		TotalRows:      aggregate.TotalRows(),
		CursorLastRow:  aggregate.Cursor().LastProcessedRow,
		ArtifactURL:    aggregate.ArtifactURL(),
		FailureMessage: aggregate.FailureMessage(),
		CreatedAt:      aggregate.CreatedAt(),
		StartedAt:      aggregate.StartedAt(),
		FinishedAt:     aggregate.FinishedAt(),
	}
}

// toDomain converts a database DTO back to a job aggregate using
// RestoreImportJob, re-parsing the stored type and status strings.
func toDomain(dto JobDTO) (*job.ImportJob, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	jobType, err := job.TypeFromString(dto.JobType)
	if err != nil {
		return nil, err
	}

	status, err := job.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return job.RestoreImportJob(
		id,
		jobType,
		status,
		dto.FilePath,
		dto.SubmittedBy,
		dto.RetryCount,
		dto.ProcessedRows,
		dto.TotalRows,
		job.ResumeCursor{LastProcessedRow: dto.CursorLastRow},
		dto.ArtifactURL,
		dto.FailureMessage,
		dto.CreatedAt,
		dto.StartedAt,
		dto.FinishedAt,
	)
}
