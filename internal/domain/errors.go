package domain

import (
	"errors"
	"fmt"
)

// ─── Error Taxonomy ─────────────────────────────────────────────────────────
// Every failure that crosses a component boundary is a *Error carrying a
// Kind. The Kind alone decides the outward status (400/404/409/500).

// Kind classifies a domain failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConfiguration
)

// String returns the wire code for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "BAD_REQUEST"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindConfiguration:
		return "CONFIGURATION"
	default:
		return "INTERNAL"
	}
}

// Sentinel kind errors, for use with errors.Is.
var (
	ErrValidation    = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound      = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict      = &Error{Kind: KindConflict, Message: "duplicate"}
	ErrConfiguration = &Error{Kind: KindConfiguration, Message: "misconfigured"}
	ErrUnexpected    = &Error{Kind: KindUnexpected, Message: "unexpected error"}
)

// Error is a classified domain error.
type Error struct {
	Kind    Kind
	Entity  string // account, transfer, payment, validation_amount, parameter
	Message string
	Err     error
}

func (e *Error) Error() string {
	prefix := e.Message
	if e.Entity != "" {
		prefix = e.Entity + ": " + e.Message
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrConflict)
// holds for every conflict regardless of entity or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnexpected when err is not a
// domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}

// ─── Constructors ───────────────────────────────────────────────────────────

func Validationf(entity, format string, args ...any) error {
	return &Error{Kind: KindValidation, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(entity, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(entity, format string, args ...any) error {
	return &Error{Kind: KindConflict, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func Configurationf(entity, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// Unexpected wraps an unclassified failure. The message stays generic; the
// cause is kept for logging only.
func Unexpected(entity, op string, err error) error {
	return &Error{Kind: KindUnexpected, Entity: entity, Message: op, Err: err}
}

// Code returns the wire code for err's kind.
func Code(err error) string {
	return KindOf(err).String()
}
