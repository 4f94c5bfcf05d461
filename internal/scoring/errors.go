package scoring

import (
	"errors"
	"fmt"
)

// ErrorKind is a stable machine-readable code for a validation or lookup
// failure. The message carried alongside it is what callers render.
type ErrorKind string

const (
	KindScoreOutOfRange   ErrorKind = "SCORE_OUT_OF_RANGE"
	KindInvalidWeightSum  ErrorKind = "INVALID_WEIGHT_SUM"
	KindEmptyTemplate     ErrorKind = "EMPTY_TEMPLATE"
	KindReasonRequired    ErrorKind = "REASON_REQUIRED"
	KindNoChangeDetected  ErrorKind = "NO_CHANGE_DETECTED"
	KindCriterionMismatch ErrorKind = "CRITERION_MISMATCH"
	KindDuplicateScore    ErrorKind = "DUPLICATE_SCORE"
	KindTemplateLocked    ErrorKind = "TEMPLATE_LOCKED"
	KindNotFound          ErrorKind = "NOT_FOUND"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err, or "" when err is not a scoring
// error (persistence failures pass through opaque).
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
