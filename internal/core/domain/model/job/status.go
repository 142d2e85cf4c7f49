// Package job provides the ImportJob aggregate tracking one submitted import
// file through the background worker lifecycle.
package job

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the worker-side lifecycle state of an import job.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusPending means the job waits in the queue to be claimed.
	StatusPending

	// StatusProcessing means a worker tick claimed the job and is running it.
	StatusProcessing

	// StatusPaused means the job yielded mid-file and waits to be resumed
	// from its cursor.
	StatusPaused

	// StatusCompleted means the job finished with every row applied.
	StatusCompleted

	// StatusCompletedWithErrors means the job finished but some rows were
	// rejected; an error artifact lists them.
	StatusCompletedWithErrors

	// StatusFailed means the job gave up, either on a permanent error or
	// after exhausting retries.
	StatusFailed

	// StatusCancelled means an operator withdrew the job before completion.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:             "unknown",
		StatusPending:             "pending",
		StatusProcessing:          "processing",
		StatusPaused:              "paused",
		StatusCompleted:           "completed",
		StatusCompletedWithErrors: "completed_with_errors",
		StatusFailed:              "failed",
		StatusCancelled:           "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	valid := getStatusStrings()
	delete(valid, StatusUnknown)
	return valid
}

// StatusFromString parses a persisted status string.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid job status", s))
}

// Validate checks that the value is one of the defined statuses.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidError("status is required")
	}
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid job status", s))
	}
	return nil
}

// String returns the snake_case status name used in persistence and the API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status ends the job's lifecycle. Terminal
// jobs release their submitted file and are never claimed again.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithErrors, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsRunnable reports whether a worker tick may claim the job.
func (s Status) IsRunnable() bool {
	return s == StatusPending || s == StatusPaused
}
