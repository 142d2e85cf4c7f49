package commands

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/job"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// StuckJobFailureMessage is recorded on Processing jobs whose worker died
// without finishing them.
const StuckJobFailureMessage = "killed due to timeout"

// WorkerConfig bounds one tick of the import worker.
type WorkerConfig struct {
	// ProcessingTimeout is how long a job may sit in Processing before the
	// sweep declares its worker dead.
	ProcessingTimeout time.Duration

	// TickBudget is how long one tick may spend processing rows before the
	// job is paused with a resume cursor.
	TickBudget time.Duration

	// MaxRetries is how many times a job is requeued on transient errors
	// before failing for good.
	MaxRetries int
}

// OrderReconciler reconciles one incoming order. Satisfied by
// ReconcileOrderCommandHandler.
type OrderReconciler interface {
	Handle(ctx context.Context, cmd ReconcileOrderCommand) (ReconcileResult, error)
}

// StockAdjuster applies one stock adjustment. Satisfied by
// AdjustStockCommandHandler.
type StockAdjuster interface {
	Handle(ctx context.Context, cmd AdjustStockCommand) error
}

// rowError is one rejected file row destined for the error artifact.
type rowError struct {
	row       int
	reference string
	message   string
}

// ProcessQueuedJobCommandHandler implements one tick of the import worker.
//
// Tick sequence:
//  1. Sweep: Processing jobs claimed longer ago than ProcessingTimeout are
//     failed with StuckJobFailureMessage. Their worker is presumed dead.
//  2. Claim: the oldest Pending or Paused job is atomically flipped to
//     Processing. Concurrent workers never claim the same job.
//  3. Run: the file is parsed and its rows applied one by one, each invoice
//     in its own transaction. Rejected rows go to a CSV error artifact;
//     transient infrastructure errors requeue the job with a bounded retry
//     budget; exceeding the tick budget pauses the job with a resume cursor.
//
// The staged file is deleted once the job reaches a terminal status. Paused
// jobs keep their file for the resuming tick, and any rows rejected before
// the pause are appended to the job's error artifact so no rejection is lost
// across segments.
type ProcessQueuedJobCommandHandler struct {
	jobUoWFactory JobUoWFactory
	reconciler    OrderReconciler
	adjuster      StockAdjuster
	orderSource   ports.OrderSource
	adjSource     ports.AdjustmentSource
	artifacts     ports.ArtifactStore
	config        WorkerConfig
	logger        *slog.Logger
}

// NewProcessQueuedJobCommandHandler creates a handler for worker ticks.
func NewProcessQueuedJobCommandHandler(
	jobUoWFactory JobUoWFactory,
	reconciler OrderReconciler,
	adjuster StockAdjuster,
	orderSource ports.OrderSource,
	adjSource ports.AdjustmentSource,
	artifacts ports.ArtifactStore,
	config WorkerConfig,
	logger *slog.Logger,
) ProcessQueuedJobCommandHandler {
	return ProcessQueuedJobCommandHandler{
		jobUoWFactory: jobUoWFactory,
		reconciler:    reconciler,
		adjuster:      adjuster,
		orderSource:   orderSource,
		adjSource:     adjSource,
		artifacts:     artifacts,
		config:        config,
		logger:        logger,
	}
}

// Handle runs one tick. Returns nil when the queue is empty.
func (h ProcessQueuedJobCommandHandler) Handle(ctx context.Context, cmd ProcessQueuedJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	tickStart := time.Now()

	if err := h.sweepStuckJobs(ctx); err != nil {
		return err
	}

	claimed, err := h.claimNext(ctx)
	if err != nil {
		return err
	}
	if claimed == nil {
		return nil
	}

	h.logger.Info("job claimed",
		"jobID", claimed.ID().String(),
		"jobType", claimed.JobType().String(),
		"retry", claimed.RetryCount(),
	)

	switch claimed.JobType() {
	case job.TypeOrderImport:
		return h.runOrderImport(ctx, claimed, tickStart)
	case job.TypeStockAdjustment:
		return h.runAdjustmentImport(ctx, claimed, tickStart)
	default:
		return h.concludeFailure(ctx, claimed, fmt.Errorf("no handler for job type %s", claimed.JobType()))
	}
}

// sweepStuckJobs fails Processing jobs whose claim outlived the processing
// timeout.
func (h ProcessQueuedJobCommandHandler) sweepStuckJobs(ctx context.Context) error {
	uow := h.jobUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deadline := time.Now().Add(-h.config.ProcessingTimeout)
	swept, err := uow.JobRepository().FailStuckProcessing(ctx, deadline, StuckJobFailureMessage)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if swept > 0 {
		h.logger.Warn("swept stuck jobs", "count", swept)
	}
	return nil
}

// claimNext atomically claims the oldest runnable job. Returns (nil, nil)
// when the queue is empty.
func (h ProcessQueuedJobCommandHandler) claimNext(ctx context.Context) (*job.ImportJob, error) {
	uow := h.jobUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	claimed, err := uow.JobRepository().ClaimNextRunnable(ctx, time.Now())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return claimed, nil
}

func (h ProcessQueuedJobCommandHandler) runOrderImport(ctx context.Context, j *job.ImportJob, tickStart time.Time) error {
	incomings, err := h.orderSource.ParseOrders(ctx, j.FilePath())
	if err != nil {
		return h.concludeFailure(ctx, j, fmt.Errorf("parsing %s: %w", j.FilePath(), err))
	}

	j.SetTotalRows(len(incomings))
	sourceFile := filepath.Base(j.FilePath())
	processed := j.ProcessedRows()
	outcomes := make(map[string]int)
	var rowErrors []rowError

	for i := j.Cursor().LastProcessedRow; i < len(incomings); i++ {
		if time.Since(tickStart) > h.config.TickBudget {
			return h.pause(ctx, j, job.ResumeCursor{LastProcessedRow: i}, rowErrors)
		}

		in := incomings[i]
		cmd, err := NewReconcileOrderCommand(in, sourceFile)
		if err != nil {
			rowErrors = append(rowErrors, rowError{row: i + 1, reference: in.InvoiceID, message: err.Error()})
			processed++
			j.RecordProgress(i+1, processed)
			continue
		}

		result, err := h.reconciler.Handle(ctx, cmd)
		switch {
		case err != nil && isTransientError(err):
			return h.concludeFailure(ctx, j, err)
		case err != nil:
			rowErrors = append(rowErrors, rowError{row: i + 1, reference: in.InvoiceID, message: err.Error()})
		default:
			outcomes[result.Outcome.String()]++
			if result.ExcessReturn > 0 {
				h.logger.Warn("return exceeds order content",
					"jobID", j.ID().String(),
					"invoice", result.InvoiceID,
					"excessUnits", result.ExcessReturn,
				)
			}
		}

		processed++
		j.RecordProgress(i+1, processed)
	}

	h.logger.Info("order import finished",
		"jobID", j.ID().String(),
		"rows", len(incomings),
		"outcomes", outcomes,
		"rejectedRows", len(rowErrors),
	)

	return h.finish(ctx, j, rowErrors)
}

func (h ProcessQueuedJobCommandHandler) runAdjustmentImport(ctx context.Context, j *job.ImportJob, tickStart time.Time) error {
	adjustments, err := h.adjSource.ParseAdjustments(ctx, j.FilePath())
	if err != nil {
		return h.concludeFailure(ctx, j, fmt.Errorf("parsing %s: %w", j.FilePath(), err))
	}

	j.SetTotalRows(len(adjustments))
	actor := j.SubmittedBy()
	if actor == "" {
		actor = "import:" + j.ID().String()
	}
	processed := j.ProcessedRows()
	var rowErrors []rowError

	for i := j.Cursor().LastProcessedRow; i < len(adjustments); i++ {
		if time.Since(tickStart) > h.config.TickBudget {
			return h.pause(ctx, j, job.ResumeCursor{LastProcessedRow: i}, rowErrors)
		}

		adj := adjustments[i]
		if err := h.applyAdjustment(ctx, adj, actor); err != nil {
			if isTransientError(err) {
				return h.concludeFailure(ctx, j, err)
			}
			reference := fmt.Sprintf("%s@%s", adj.SKU, adj.LocationCode)
			rowErrors = append(rowErrors, rowError{row: i + 1, reference: reference, message: err.Error()})
		}

		processed++
		j.RecordProgress(i+1, processed)
	}

	h.logger.Info("stock adjustment import finished",
		"jobID", j.ID().String(),
		"rows", len(adjustments),
		"rejectedRows", len(rowErrors),
	)

	return h.finish(ctx, j, rowErrors)
}

func (h ProcessQueuedJobCommandHandler) applyAdjustment(ctx context.Context, adj stock.Adjustment, actor string) error {
	cmd, err := NewAdjustStockCommand(adj, actor)
	if err != nil {
		return err
	}
	return h.adjuster.Handle(ctx, cmd)
}

// pause yields the job with a resume cursor. Rows rejected in this segment
// are flushed to the error artifact first, so the resuming tick only has to
// append its own rejections.
func (h ProcessQueuedJobCommandHandler) pause(ctx context.Context, j *job.ImportJob, cursor job.ResumeCursor, rowErrors []rowError) error {
	if len(rowErrors) > 0 {
		if _, _, err := h.appendErrorArtifact(ctx, j, rowErrors); err != nil {
			return h.concludeFailure(ctx, j, fmt.Errorf("storing error artifact: %w", err))
		}
	}

	if err := j.Pause(cursor); err != nil {
		return err
	}

	h.logger.Info("job paused",
		"jobID", j.ID().String(),
		"lastProcessedRow", cursor.LastProcessedRow,
		"totalRows", j.TotalRows(),
	)
	return h.saveJob(ctx, j)
}

// finish completes the job, attaching the CSV error artifact when any
// segment rejected rows, and releases the staged file.
func (h ProcessQueuedJobCommandHandler) finish(ctx context.Context, j *job.ImportJob, rowErrors []rowError) error {
	now := time.Now()

	url, hasErrors, err := h.appendErrorArtifact(ctx, j, rowErrors)
	if err != nil {
		return h.concludeFailure(ctx, j, fmt.Errorf("storing error artifact: %w", err))
	}

	if hasErrors {
		if err = j.CompleteWithErrors(url, now); err != nil {
			return err
		}
	} else {
		if err = j.Complete(now); err != nil {
			return err
		}
	}

	if err := h.saveJob(ctx, j); err != nil {
		return err
	}

	h.releaseFile(j)
	return nil
}

// concludeFailure ends the run on an error: transient causes requeue the job
// until retries run out, everything else fails it immediately.
func (h ProcessQueuedJobCommandHandler) concludeFailure(ctx context.Context, j *job.ImportJob, cause error) error {
	if isTransientError(cause) {
		err := j.Requeue(h.config.MaxRetries)
		switch {
		case errors.Is(err, job.ErrRetriesExhausted):
			if err = j.Fail(cause.Error(), time.Now()); err != nil {
				return err
			}
			h.logger.Error("job failed after exhausting retries",
				"jobID", j.ID().String(), "error", cause)
		case err != nil:
			return err
		default:
			h.logger.Warn("job requeued on transient error",
				"jobID", j.ID().String(), "retry", j.RetryCount(), "error", cause)
		}
	} else {
		if err := j.Fail(cause.Error(), time.Now()); err != nil {
			return err
		}
		h.logger.Error("job failed", "jobID", j.ID().String(), "error", cause)
	}

	if err := h.saveJob(ctx, j); err != nil {
		return err
	}

	if j.Status().IsTerminal() {
		h.releaseFile(j)
	}
	return nil
}

func (h ProcessQueuedJobCommandHandler) saveJob(ctx context.Context, j *job.ImportJob) error {
	uow := h.jobUoWFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.JobRepository().Update(ctx, j); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// releaseFile deletes the staged file of a finished job. Best effort: a
// leftover file wastes disk, nothing more.
func (h ProcessQueuedJobCommandHandler) releaseFile(j *job.ImportJob) {
	if err := os.Remove(j.FilePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		h.logger.Warn("could not delete staged file",
			"jobID", j.ID().String(), "file", j.FilePath(), "error", err)
	}
}

// appendErrorArtifact merges this segment's row errors into the job's error
// artifact. The artifact lives under a key derived from the job ID, so every
// segment of a paused-and-resumed job lands in the same file. Returns the
// artifact reference and whether any segment, this one or an earlier one,
// rejected rows.
func (h ProcessQueuedJobCommandHandler) appendErrorArtifact(ctx context.Context, j *job.ImportJob, rowErrors []rowError) (string, bool, error) {
	key := errorArtifactKey(j)

	existing, err := h.artifacts.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if existing == nil && len(rowErrors) == 0 {
		return "", false, nil
	}

	payload := existing
	if payload == nil {
		payload = errorCSVHeader()
	}
	payload = append(payload, errorCSVRows(rowErrors)...)

	url, err := h.artifacts.Put(ctx, key, "text/csv", payload)
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func errorArtifactKey(j *job.ImportJob) string {
	return fmt.Sprintf("imports/errors/%s.csv", j.ID().String())
}

func errorCSVHeader() []byte {
	return []byte("row,reference,error\n")
}

func errorCSVRows(rowErrors []rowError) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, re := range rowErrors {
		_ = w.Write([]string{strconv.Itoa(re.row), re.reference, re.message})
	}
	w.Flush()

	return buf.Bytes()
}

// isTransientError reports whether the error looks like a temporary
// infrastructure hiccup worth a retry. Matching on message text is crude but
// covers the driver errors seen in practice.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"deadlock",
		"timeout",
		"timed out",
		"connection refused",
		"connection reset",
		"broken pipe",
		"too many connections",
		"temporarily unavailable",
		"try again",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
