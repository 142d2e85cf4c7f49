package job

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// MaxFailureMessageLen bounds the stored failure message so one giant driver
// error cannot bloat the jobs table.
const MaxFailureMessageLen = 500

var (
	// ErrImportJobIsNotConstructed is returned when an ImportJob instance was not
	// created through the NewImportJob or RestoreImportJob factory methods.
	ErrImportJobIsNotConstructed = errors.New("ImportJob must be created via NewImportJob or RestoreImportJob constructor")

	// ErrRetriesExhausted is returned by Requeue once the retry ceiling is hit.
	ErrRetriesExhausted = errors.New("job has exhausted its retries")
)

// Type identifies which handler a worker dispatches the job to.
type Type int

const (
	// TypeUnknown represents an invalid or undefined job type.
	TypeUnknown Type = iota

	// TypeOrderImport reconciles a marketplace order export file.
	TypeOrderImport

	// TypeStockAdjustment applies a stock adjustment file.
	TypeStockAdjustment
)

func getTypeStrings() map[Type]string {
	return map[Type]string{
		TypeUnknown:         "unknown",
		TypeOrderImport:     "order_import",
		TypeStockAdjustment: "stock_adjustment",
	}
}

// TypeFromString parses a persisted job type string.
func TypeFromString(s string) (Type, error) {
	for t, str := range getTypeStrings() {
		if str == s {
			return t, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("job type is invalid",
		fmt.Errorf("%q is not a valid job type", s))
}

// Validate checks that the value is one of the defined job types.
func (t Type) Validate() error {
	if t == TypeUnknown {
		return errs.NewValueIsInvalidError("job type is required")
	}
	if _, ok := getTypeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("job type is invalid",
			fmt.Errorf("%d is not a valid job type", t))
	}
	return nil
}

// String returns the snake_case type name used in persistence and dispatch.
func (t Type) String() string {
	if str, ok := getTypeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// ResumeCursor marks where a paused job picks its file back up. Rows before
// and including LastProcessedRow were fully applied and must be skipped on
// resume so their effects are not doubled.
type ResumeCursor struct {
	LastProcessedRow int
}

// ImportJob is the aggregate tracking one submitted import file: its queue
// state, progress counters, resume cursor and outcome artifacts.
//
// ImportJob follows these invariants:
//   - Status transitions follow the worker lifecycle; terminal statuses are final
//   - A paused job always carries a resume cursor
//   - The failure message never exceeds MaxFailureMessageLen runes
//   - Can only be created through NewImportJob or RestoreImportJob
type ImportJob struct {
	id       kernel.UUID
	jobType  Type
	status   Status
	filePath string

	// submittedBy is the operator account that uploaded the file.
	submittedBy string

	retryCount    int
	processedRows int
	totalRows     int
	cursor        ResumeCursor

	// artifactURL points at the stored error report for
	// completed-with-errors outcomes, empty otherwise.
	artifactURL    string
	failureMessage string

	createdAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time

	isConstructed bool
}

// NewImportJob enqueues a new job for a submitted file.
func NewImportJob(id kernel.UUID, jobType Type, filePath, submittedBy string, now time.Time) (*ImportJob, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := jobType.Validate(); err != nil {
		return nil, err
	}
	if filePath == "" {
		return nil, errs.NewValueIsRequiredError("filePath")
	}

	return &ImportJob{
		id:            id,
		jobType:       jobType,
		status:        StatusPending,
		filePath:      filePath,
		submittedBy:   submittedBy,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreImportJob reconstructs a job from persistence.
func RestoreImportJob(
	id kernel.UUID,
	jobType Type,
	status Status,
	filePath string,
	submittedBy string,
	retryCount int,
	processedRows int,
	totalRows int,
	cursor ResumeCursor,
	artifactURL string,
	failureMessage string,
	createdAt time.Time,
	startedAt *time.Time,
	finishedAt *time.Time,
) (*ImportJob, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := jobType.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return &ImportJob{
		id:             id,
		jobType:        jobType,
		status:         status,
		filePath:       filePath,
		submittedBy:    submittedBy,
		retryCount:     retryCount,
		processedRows:  processedRows,
		totalRows:      totalRows,
		cursor:         cursor,
		artifactURL:    artifactURL,
		failureMessage: failureMessage,
		createdAt:      createdAt,
		startedAt:      startedAt,
		finishedAt:     finishedAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the ImportJob instance was properly constructed.
func (j *ImportJob) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrImportJobIsNotConstructed
	}
	return nil
}

// ID returns the job's unique identifier.
func (j *ImportJob) ID() kernel.UUID {
	return j.id
}

// JobType returns which handler the job dispatches to.
func (j *ImportJob) JobType() Type {
	return j.jobType
}

// Status returns the job's current lifecycle status.
func (j *ImportJob) Status() Status {
	return j.status
}

// FilePath returns where the submitted file is staged.
func (j *ImportJob) FilePath() string {
	return j.filePath
}

// SubmittedBy returns the operator account that uploaded the file.
func (j *ImportJob) SubmittedBy() string {
	return j.submittedBy
}

// RetryCount returns how many times the job was requeued after a transient error.
func (j *ImportJob) RetryCount() int {
	return j.retryCount
}

// ProcessedRows returns how many file rows were fully applied so far.
func (j *ImportJob) ProcessedRows() int {
	return j.processedRows
}

// TotalRows returns the detected row count of the file, 0 until known.
func (j *ImportJob) TotalRows() int {
	return j.totalRows
}

// Cursor returns the resume position, meaningful while Paused.
func (j *ImportJob) Cursor() ResumeCursor {
	return j.cursor
}

// ArtifactURL returns the stored error report location, empty if none.
func (j *ImportJob) ArtifactURL() string {
	return j.artifactURL
}

// FailureMessage returns the truncated terminal error text, empty unless Failed.
func (j *ImportJob) FailureMessage() string {
	return j.failureMessage
}

// CreatedAt returns when the job was submitted.
func (j *ImportJob) CreatedAt() time.Time {
	return j.createdAt
}

// StartedAt returns when a worker last claimed the job, nil if never.
func (j *ImportJob) StartedAt() *time.Time {
	return j.startedAt
}

// FinishedAt returns when the job reached a terminal status, nil until then.
func (j *ImportJob) FinishedAt() *time.Time {
	return j.finishedAt
}

// Start records that a worker claimed the job.
func (j *ImportJob) Start(now time.Time) error {
	if !j.status.IsRunnable() {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("cannot start a %s job", j.status))
	}
	j.status = StatusProcessing
	j.startedAt = &now
	return nil
}

// SetTotalRows records the detected row count once the file header is read.
func (j *ImportJob) SetTotalRows(total int) {
	j.totalRows = total
}

// RecordProgress advances the applied-row counter and the resume cursor.
func (j *ImportJob) RecordProgress(lastRow, processed int) {
	j.cursor = ResumeCursor{LastProcessedRow: lastRow}
	j.processedRows = processed
}

// Pause yields the job mid-file with a cursor to resume from.
func (j *ImportJob) Pause(cursor ResumeCursor) error {
	if j.status != StatusProcessing {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("cannot pause a %s job", j.status))
	}
	j.status = StatusPaused
	j.cursor = cursor
	return nil
}

// Complete finishes the job with every row applied.
func (j *ImportJob) Complete(now time.Time) error {
	return j.finish(StatusCompleted, now)
}

// CompleteWithErrors finishes the job with some rows rejected, recording
// where the error report was stored.
func (j *ImportJob) CompleteWithErrors(artifactURL string, now time.Time) error {
	if err := j.finish(StatusCompletedWithErrors, now); err != nil {
		return err
	}
	j.artifactURL = artifactURL
	return nil
}

// Fail finishes the job on a permanent error. The message is truncated to
// MaxFailureMessageLen runes.
func (j *ImportJob) Fail(message string, now time.Time) error {
	if err := j.finish(StatusFailed, now); err != nil {
		return err
	}
	j.failureMessage = truncate(message, MaxFailureMessageLen)
	return nil
}

// Cancel withdraws a job that has not finished yet.
func (j *ImportJob) Cancel(now time.Time) error {
	if j.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("cannot cancel a %s job", j.status))
	}
	j.status = StatusCancelled
	j.finishedAt = &now
	return nil
}

// Requeue puts a Processing job back in the queue after a transient error.
// Returns ErrRetriesExhausted once maxRetries requeues happened; the caller
// then fails the job instead.
func (j *ImportJob) Requeue(maxRetries int) error {
	if j.status != StatusProcessing {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("cannot requeue a %s job", j.status))
	}
	if j.retryCount >= maxRetries {
		return ErrRetriesExhausted
	}
	j.retryCount++
	j.status = StatusPending
	return nil
}

func (j *ImportJob) finish(terminal Status, now time.Time) error {
	if j.status != StatusProcessing {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("cannot finish a %s job", j.status))
	}
	j.status = terminal
	j.finishedAt = &now
	return nil
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
