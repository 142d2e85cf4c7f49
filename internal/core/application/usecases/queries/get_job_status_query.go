// Package queries contains read-side operations of the CQRS architecture.
// Query handlers bypass the domain model and read the database directly for
// optimal read performance.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetJobStatusQueryIsNotConstructed = errors.New(
	"GetJobStatusQuery must be created via NewGetJobStatusQuery constructor",
)

// GetJobStatusQuery retrieves the current state of one import job for
// operators polling the progress of their upload.
type GetJobStatusQuery struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetJobStatusQuery creates a query for one job's status.
func NewGetJobStatusQuery(jobID kernel.UUID) (GetJobStatusQuery, error) {
	if err := jobID.Validate(); err != nil {
		return GetJobStatusQuery{}, err
	}

	return GetJobStatusQuery{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetJobStatusQueryIsNotConstructed if validation fails.
func (q GetJobStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetJobStatusQueryIsNotConstructed)
}

// JobID returns the job identifier to look up.
func (q GetJobStatusQuery) JobID() kernel.UUID {
	return q.jobID
}

// GetJobStatusQueryResponse is the job read model exposed to the API.
type GetJobStatusQueryResponse struct {
	ID             kernel.UUID
	JobType        string
	Status         string
	ProcessedRows  int
	TotalRows      int
	RetryCount     int
	ArtifactURL    string
	FailureMessage string
	SubmittedBy    string
	CreatedAt      time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
}
