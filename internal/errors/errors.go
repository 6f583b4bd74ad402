package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies pipeline errors by how they propagate: dataset-level
// problems abort the run, stage-local problems are absorbed and reported as
// counts by the stage that saw them.
type ErrorType string

const (
	// ErrorTypeMissingSource means no raw data was found at all. Fatal.
	ErrorTypeMissingSource ErrorType = "missing_source"
	// ErrorTypeEmptyAggregation means a grouping had zero eligible rows
	// where the result would otherwise be fabricated. Fatal for the stage.
	ErrorTypeEmptyAggregation ErrorType = "empty_aggregation"
	// ErrorTypeStorage covers filesystem and database failures.
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeValidation covers malformed input that cannot be repaired.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeExecution is the catch-all for stage failures.
	ErrorTypeExecution ErrorType = "execution"
)

// PipelineError is a stage-scoped error with a stable type for callers to
// branch on.
type PipelineError struct {
	Type    ErrorType `json:"type"`
	Stage   string    `json:"stage,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewMissingSource creates a fatal no-data error.
func NewMissingSource(message string) *PipelineError {
	return &PipelineError{Type: ErrorTypeMissingSource, Stage: "load", Message: message}
}

// NewEmptyAggregation creates an error for a grouping with zero eligible
// rows, so that downstream consumers never see a fabricated zero.
func NewEmptyAggregation(stage, message string) *PipelineError {
	return &PipelineError{Type: ErrorTypeEmptyAggregation, Stage: stage, Message: message}
}

// NewStorageError wraps a filesystem or database failure.
func NewStorageError(message string, cause error) *PipelineError {
	return &PipelineError{Type: ErrorTypeStorage, Message: message, Cause: cause}
}

// NewValidationError creates an error for input that cannot be repaired.
func NewValidationError(stage, message string) *PipelineError {
	return &PipelineError{Type: ErrorTypeValidation, Stage: stage, Message: message}
}

// NewExecutionError wraps a stage failure.
func NewExecutionError(stage string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeExecution,
		Stage:   stage,
		Message: "stage execution failed",
		Cause:   cause,
	}
}

// Wrap attaches stage context to an arbitrary error. Existing
// PipelineErrors keep their type; the stage is filled in if absent.
func Wrap(err error, stage, message string) *PipelineError {
	if err == nil {
		return nil
	}
	var perr *PipelineError
	if stderrors.As(err, &perr) {
		if perr.Stage == "" {
			perr.Stage = stage
		}
		if message != "" {
			perr.Message = fmt.Sprintf("%s: %s", message, perr.Message)
		}
		return perr
	}
	return &PipelineError{
		Type:    ErrorTypeExecution,
		Stage:   stage,
		Message: message,
		Cause:   err,
	}
}

// TypeOf returns the classification of err, or ErrorTypeExecution for
// errors raised outside the pipeline.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	var perr *PipelineError
	if stderrors.As(err, &perr) {
		return perr.Type
	}
	return ErrorTypeExecution
}

// IsType reports whether err carries the given classification.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}
