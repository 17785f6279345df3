package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrInvalidRange     = errors.New("invalid issue range")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrLinkNotFound     = errors.New("download link not found")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrEmptyURL         = errors.New("empty URL")
)

// Stage identifies the step of an issue download that failed.
type Stage string

const (
	StageMetadata Stage = "metadata"
	StageResolve  Stage = "resolve"
	StageDownload Stage = "download"
	StageWrite    Stage = "write"
)

// ValidationError is returned for out-of-bounds CLI input.
// It is fatal to the whole run.
type ValidationError struct {
	Field  string
	Value  int
	Reason string
}

// Error returns the error message
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s issue %q: %s", e.Field, fmt.Sprint(e.Value), e.Reason)
}

// Unwrap lets callers match ErrInvalidRange
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRange
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value int, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// IsValidationError returns true if err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IssueError represents a per-issue failure.
// Processing continues with the next issue when this error occurs.
type IssueError struct {
	Stage Stage
	Err   error
}

// Error returns the error message
func (e *IssueError) Error() string {
	if e.Err == nil {
		return string(e.Stage) + " failed"
	}
	return string(e.Stage) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *IssueError) Unwrap() error {
	return e.Err
}

// NewMetadataFetchError wraps a failure retrieving the metadata page
func NewMetadataFetchError(err error) *IssueError {
	return &IssueError{Stage: StageMetadata, Err: err}
}

// NewLinkNotFoundError reports that no link on the metadata page names fileName
func NewLinkNotFoundError(fileName string) *IssueError {
	return &IssueError{Stage: StageResolve, Err: fmt.Errorf("%w for %q", ErrLinkNotFound, fileName)}
}

// NewDownloadError wraps a failure while streaming the issue file
func NewDownloadError(err error) *IssueError {
	return &IssueError{Stage: StageDownload, Err: err}
}

// NewWriteError wraps a local filesystem failure
func NewWriteError(err error) *IssueError {
	return &IssueError{Stage: StageWrite, Err: err}
}

// StageOf returns the stage recorded in err, or "" if err is not an IssueError
func StageOf(err error) Stage {
	var ie *IssueError
	if errors.As(err, &ie) {
		return ie.Stage
	}
	return ""
}
