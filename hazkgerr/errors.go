// Package hazkgerr defines the taxonomy of errors shared across every
// component. Each sentinel corresponds to one failure kind from the
// error handling design: record-level issues accumulate as Issue
// values rather than errors, while these sentinels are reserved for
// stage-level aborts and backend/transport failures.
package hazkgerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMalformed is returned when a file or row cannot be parsed.
	ErrInputMalformed = errors.New("hazkg: input malformed")

	// ErrSchemaViolation is returned when a required field is missing or
	// a value falls outside its declared vocabulary.
	ErrSchemaViolation = errors.New("hazkg: schema violation")

	// ErrRangeViolation is returned when a numeric value falls outside
	// its declared bounds.
	ErrRangeViolation = errors.New("hazkg: range violation")

	// ErrShapeViolation is returned when a candidate entity or
	// relationship fails ontology shape validation.
	ErrShapeViolation = errors.New("hazkg: shape violation")

	// ErrQualityBelowThreshold is returned when a batch's overall
	// quality score falls below the configured minimum.
	ErrQualityBelowThreshold = errors.New("hazkg: quality below threshold")

	// ErrCompatibilityForbidden is returned when a substance/container
	// or substance/substance pairing is forbidden.
	ErrCompatibilityForbidden = errors.New("hazkg: compatibility forbidden")

	// ErrBackendUnavailable is returned on transport/backend failure.
	ErrBackendUnavailable = errors.New("hazkg: backend unavailable")

	// ErrNotConnected is returned when an operation runs before Connect.
	ErrNotConnected = errors.New("hazkg: not connected")

	// ErrConflict is returned on a unique-id violation.
	ErrConflict = errors.New("hazkg: conflict")

	// ErrTimeout is returned when a per-stage deadline is exceeded.
	ErrTimeout = errors.New("hazkg: timeout")

	// ErrCancelled is returned when a run's context is cancelled.
	ErrCancelled = errors.New("hazkg: cancelled")
)

// Kind reports the taxonomy label for err, or "" if err does not match
// a known sentinel. Useful for callers that branch on failure kind
// without string-matching error messages.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputMalformed):
		return "InputMalformed"
	case errors.Is(err, ErrSchemaViolation):
		return "SchemaViolation"
	case errors.Is(err, ErrRangeViolation):
		return "RangeViolation"
	case errors.Is(err, ErrShapeViolation):
		return "ShapeViolation"
	case errors.Is(err, ErrQualityBelowThreshold):
		return "QualityBelowThreshold"
	case errors.Is(err, ErrCompatibilityForbidden):
		return "CompatibilityForbidden"
	case errors.Is(err, ErrBackendUnavailable):
		return "BackendUnavailable"
	case errors.Is(err, ErrNotConnected):
		return "NotConnected"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrTimeout):
		return "Timeout"
	case errors.Is(err, ErrCancelled):
		return "Cancelled"
	default:
		return ""
	}
}

// Wrap annotates err with a sentinel-preserving message, following the
// package-prefixed "%w" wrapping convention used throughout this
// module.
func Wrap(sentinel error, context string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", sentinel, context)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, context, err)
}

// Issue is a record-level problem. Unlike the sentinels above, an
// Issue never aborts a stage; it accumulates in a result's Errors or
// Warnings list.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}
