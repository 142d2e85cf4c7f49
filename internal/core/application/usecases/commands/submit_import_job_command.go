package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/job"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrSubmitImportJobCommandIsNotConstructed = errors.New(
		"SubmitImportJobCommand must be created via NewSubmitImportJobCommand constructor",
	)
	ErrFilePathIsRequired = errors.New("file path is required")
)

// SubmitImportJobCommand represents a request to enqueue a staged import file
// for background processing.
type SubmitImportJobCommand struct { //nolint:recvcheck //using for validation
	jobID       kernel.UUID
	jobType     job.Type
	filePath    string
	submittedBy string

	guard guard.ConstructorGuard
}

// NewSubmitImportJobCommand creates a command to enqueue an import job.
// Validates the job id, the job type and the staged file path.
func NewSubmitImportJobCommand(jobID kernel.UUID, jobType job.Type, filePath, submittedBy string) (SubmitImportJobCommand, error) {
	cmd := SubmitImportJobCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setJobType(jobType),
		cmd.setFilePath(filePath),
	); err != nil {
		return SubmitImportJobCommand{}, err
	}

	cmd.submittedBy = submittedBy
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitImportJobCommandIsNotConstructed if validation fails.
func (c SubmitImportJobCommand) Validate() error {
	return c.guard.Validate(ErrSubmitImportJobCommandIsNotConstructed)
}

// JobID returns the identifier the job will be tracked under.
func (c SubmitImportJobCommand) JobID() kernel.UUID {
	return c.jobID
}

// JobType returns which import handler the job dispatches to.
func (c SubmitImportJobCommand) JobType() job.Type {
	return c.jobType
}

// FilePath returns where the submitted file is staged.
func (c SubmitImportJobCommand) FilePath() string {
	return c.filePath
}

// SubmittedBy returns the operator account that uploaded the file.
func (c SubmitImportJobCommand) SubmittedBy() string {
	return c.submittedBy
}

func (c *SubmitImportJobCommand) setJobID(jobID kernel.UUID) error {
	if err := jobID.Validate(); err != nil {
		return err
	}

	c.jobID = jobID
	return nil
}

func (c *SubmitImportJobCommand) setJobType(jobType job.Type) error {
	if err := jobType.Validate(); err != nil {
		return err
	}

	c.jobType = jobType
	return nil
}

func (c *SubmitImportJobCommand) setFilePath(filePath string) error {
	if filePath == "" {
		return ErrFilePathIsRequired
	}

	c.filePath = filePath
	return nil
}
