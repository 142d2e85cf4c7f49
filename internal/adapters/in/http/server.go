// Package http provides the inbound HTTP adapter: file submission for the
// import queue, job status lookups and the open-order dashboard feed.
package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/job"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the uniform error body returned by all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SubmitImportResponse acknowledges an accepted import file.
type SubmitImportResponse struct {
	JobID string `json:"jobId"`
}

// JobStatusResponse is the wire form of one import job.
type JobStatusResponse struct {
	ID             string     `json:"id"`
	JobType        string     `json:"jobType"`
	Status         string     `json:"status"`
	ProcessedRows  int        `json:"processedRows"`
	TotalRows      int        `json:"totalRows"`
	RetryCount     int        `json:"retryCount"`
	ArtifactURL    string     `json:"artifactUrl,omitempty"`
	FailureMessage string     `json:"failureMessage,omitempty"`
	SubmittedBy    string     `json:"submittedBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
}

// OpenOrderResponse is the wire form of one open order header.
type OpenOrderResponse struct {
	ID            string     `json:"id"`
	InvoiceID     string     `json:"invoiceId"`
	Channel       string     `json:"channel"`
	Customer      string     `json:"customer"`
	OrderDate     *time.Time `json:"orderDate,omitempty"`
	Status        string     `json:"status"`
	LineCount     int        `json:"lineCount"`
	TotalQuantity int        `json:"totalQuantity"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	stagingDir string

	submitImportJobHandler commands.SubmitImportJobCommandHandler
	getJobStatusHandler    queries.GetJobStatusQueryHandler
	getOpenOrdersHandler   queries.GetOpenOrdersQueryHandler
}

// NewServer creates a new HTTP server. Uploaded files are staged under
// stagingDir before the job referencing them is enqueued.
func NewServer(
	stagingDir string,
	submitImportJobHandler commands.SubmitImportJobCommandHandler,
	getJobStatusHandler queries.GetJobStatusQueryHandler,
	getOpenOrdersHandler queries.GetOpenOrdersQueryHandler,
) *Server {
	return &Server{
		stagingDir:             stagingDir,
		submitImportJobHandler: submitImportJobHandler,
		getJobStatusHandler:    getJobStatusHandler,
		getOpenOrdersHandler:   getOpenOrdersHandler,
	}
}

// RegisterRoutes attaches all endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/api/v1/imports", s.SubmitImport)
	e.GET("/api/v1/imports/:id", s.GetImportStatus)
	e.GET("/api/v1/orders/open", s.GetOpenOrders)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// SubmitImport handles POST /api/v1/imports. Accepts a multipart upload with
// the file under "file", the job type under "job_type" and the operator
// account under "submitted_by"; stages the file and enqueues the job.
func (s *Server) SubmitImport(ctx echo.Context) error {
	jobType, err := job.TypeFromString(ctx.FormValue("job_type"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job type",
		})
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Missing import file",
		})
	}

	jobID := kernel.NewUUID()
	stagedPath, err := s.stageUpload(fileHeader, jobID)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to stage import file",
		})
	}

	cmd, err := commands.NewSubmitImportJobCommand(jobID, jobType, stagedPath, ctx.FormValue("submitted_by"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid import submission: " + err.Error(),
		})
	}

	if handleErr := s.submitImportJobHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to enqueue import job",
		})
	}

	return ctx.JSON(http.StatusAccepted, SubmitImportResponse{JobID: jobID.String()})
}

// GetImportStatus handles GET /api/v1/imports/:id.
func (s *Server) GetImportStatus(ctx echo.Context) error {
	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job id",
		})
	}

	query, err := queries.NewGetJobStatusQuery(jobID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job id",
		})
	}

	status, err := s.getJobStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Job not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve job status",
		})
	}

	return ctx.JSON(http.StatusOK, JobStatusResponse{
		ID:             status.ID.String(),
		JobType:        status.JobType,
		Status:         status.Status,
		ProcessedRows:  status.ProcessedRows,
		TotalRows:      status.TotalRows,
		RetryCount:     status.RetryCount,
		ArtifactURL:    status.ArtifactURL,
		FailureMessage: status.FailureMessage,
		SubmittedBy:    status.SubmittedBy,
		CreatedAt:      status.CreatedAt,
		StartedAt:      status.StartedAt,
		FinishedAt:     status.FinishedAt,
	})
}

// GetOpenOrders handles GET /api/v1/orders/open.
func (s *Server) GetOpenOrders(ctx echo.Context) error {
	orders, err := s.getOpenOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetOpenOrdersQuery())
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve open orders",
		})
	}

	response := make([]OpenOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = OpenOrderResponse{
			ID:            o.ID.String(),
			InvoiceID:     o.InvoiceID,
			Channel:       o.Channel,
			Customer:      o.Customer,
			OrderDate:     o.OrderDate,
			Status:        o.Status,
			LineCount:     o.LineCount,
			TotalQuantity: o.TotalQuantity,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// stageUpload copies the multipart payload into the staging directory under
// the job id, keeping the original extension for the parsers.
func (s *Server) stageUpload(fileHeader *multipart.FileHeader, jobID kernel.UUID) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err = os.MkdirAll(s.stagingDir, 0o750); err != nil {
		return "", err
	}

	stagedPath := filepath.Join(s.stagingDir, fmt.Sprintf("%s%s", jobID.String(), filepath.Ext(fileHeader.Filename)))
	dst, err := os.Create(stagedPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		os.Remove(stagedPath)
		return "", err
	}

	return stagedPath, nil
}
