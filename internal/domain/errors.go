package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateOperation = errors.New("duplicate operation")
	ErrNoJobAvailable     = errors.New("no job available")
	ErrJobNotCancellable  = errors.New("job not cancellable")
)

// ErrorKind classifies pipeline failures. The kind is recorded alongside the
// error message on the job record so callers can tell a bad request from a
// broken source from an empty match set.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation"
	ErrKindResource   ErrorKind = "resource"
	ErrKindNoMatch    ErrorKind = "no_match"
	ErrKindCompose    ErrorKind = "compose"
	ErrKindCancelled  ErrorKind = "cancelled"
	ErrKindInternal   ErrorKind = "internal"
)

// PipelineError is a kinded error produced by the summarization pipeline.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewValidationError reports a malformed request, rejected before a job exists.
func NewValidationError(format string, args ...any) *PipelineError {
	return &PipelineError{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewResourceError reports a missing, corrupt, or undecodable source video.
func NewResourceError(msg string, err error) *PipelineError {
	return &PipelineError{Kind: ErrKindResource, Message: msg, Err: err}
}

// NewNoMatchError reports that no scene cleared the similarity threshold.
func NewNoMatchError(format string, args ...any) *PipelineError {
	return &PipelineError{Kind: ErrKindNoMatch, Message: fmt.Sprintf(format, args...)}
}

// NewComposeError reports an extraction or concatenation failure.
func NewComposeError(msg string, err error) *PipelineError {
	return &PipelineError{Kind: ErrKindCompose, Message: msg, Err: err}
}

// ErrorKindOf extracts the pipeline error kind, defaulting to internal for
// errors raised outside the taxonomy.
func ErrorKindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrKindInternal
}

// IsKind reports whether err carries the given pipeline error kind.
func IsKind(err error, kind ErrorKind) bool {
	return ErrorKindOf(err) == kind
}
