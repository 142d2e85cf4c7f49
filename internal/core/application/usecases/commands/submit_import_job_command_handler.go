package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/job"
)

// SubmitImportJobCommandHandler enqueues submitted import files as pending
// jobs for the background worker to claim.
type SubmitImportJobCommandHandler struct {
	uowFactory JobUoWFactory
}

// NewSubmitImportJobCommandHandler creates a handler for job submission.
// Requires a JobUoWFactory for transactional persistence.
func NewSubmitImportJobCommandHandler(uowFactory JobUoWFactory) SubmitImportJobCommandHandler {
	return SubmitImportJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle enqueues the job in Pending status.
func (h SubmitImportJobCommandHandler) Handle(ctx context.Context, cmd SubmitImportJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := job.NewImportJob(cmd.JobID(), cmd.JobType(), cmd.FilePath(), cmd.SubmittedBy(), time.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.JobRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
