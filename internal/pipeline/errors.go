package pipeline

import "fmt"

// Kind identifies the failure class of a pipeline error.
type Kind string

const (
	KindEmptyInput            Kind = "empty_input"
	KindTooLong               Kind = "too_long"
	KindDetectionUnavailable  Kind = "detection_unavailable"
	KindTranslationFailed     Kind = "translation_failed"
	KindModerationUnavailable Kind = "moderation_unavailable"
	KindInternalInvariant     Kind = "internal_invariant_violation"
)

// Error is a fatal pipeline failure. Blocked content is never an Error;
// it is a successful run with an unapproved verdict.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}
