package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrLookup           = errors.New("lookup failure")
	ErrDuplicate        = errors.New("duplicate selection")
	ErrValidation       = errors.New("validation error")
	ErrSubmission       = errors.New("submission failure")
	ErrConfiguration    = errors.New("configuration error")
	ErrBusy             = errors.New("operation in progress")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrLookup
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind is the operator-facing classification of a failure.
type Kind string

const (
	KindPermissionDenied  Kind = "permission_denied"
	KindLookupFailure     Kind = "lookup_failure"
	KindDuplicate         Kind = "duplicate_selection"
	KindValidationFailure Kind = "validation_failure"
	KindSubmissionFailure Kind = "submission_failure"
	KindBusy              Kind = "busy"
	KindConfiguration     Kind = "configuration"
)

// Classify maps an error chain onto the operator-facing taxonomy. Unknown
// errors are treated as lookup failures since every remote call is a lookup
// until submission.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrValidation):
		return KindValidationFailure
	case errors.Is(err, ErrSubmission):
		return KindSubmissionFailure
	case errors.Is(err, ErrBusy):
		return KindBusy
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	default:
		return KindLookupFailure
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
