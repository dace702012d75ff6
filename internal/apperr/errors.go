// Package apperr defines the error taxonomy shared by the services,
// repositories and HTTP handlers.  Every failure that callers are
// expected to react to carries a Kind; handlers translate the kind into
// a status code and surface Msg to the client unchanged.  Anything that
// is not an *Error is treated as an unexpected failure (HTTP 500).
package apperr

import "errors"

// Kind classifies an application error.
type Kind int

const (
	// KindValidation marks malformed, missing or out-of-range input.
	KindValidation Kind = iota + 1
	// KindNotFound marks a missing hostel, room, boarder or allocation.
	KindNotFound
	// KindConflict marks an operation rejected by current state, such as
	// a seat that is already booked or a duplicate room number.
	KindConflict
	// KindAuth marks a missing or insufficient admin credential.
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	}
	return "unknown"
}

// Sentinel values for errors.Is checks.  An *Error matches the sentinel
// of its kind.
var (
	ErrValidation = &Error{Kind: KindValidation, Msg: "validation failed"}
	ErrNotFound   = &Error{Kind: KindNotFound, Msg: "not found"}
	ErrConflict   = &Error{Kind: KindConflict, Msg: "conflict"}
	ErrAuth       = &Error{Kind: KindAuth, Msg: "unauthorized"}
)

// Error is a classified, user-facing error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Validation returns a KindValidation error with the given message.
func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

// NotFound returns a KindNotFound error with the given message.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// Conflict returns a KindConflict error with the given message.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

// Auth returns a KindAuth error with the given message.
func Auth(msg string) error { return &Error{Kind: KindAuth, Msg: msg} }

// KindOf extracts the kind of err, or 0 when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Message returns the user-facing message of a classified error.  The
// fallback is returned for unclassified errors so internal details never
// leak to clients.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback
}
