// Package apperr defines the typed failure taxonomy shared by repositories,
// services, and handlers. Every failed call reports exactly one kind plus a
// human-readable reason; validation failures are detected before any row is
// written, so callers never observe partial writes.
package apperr

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Kind classifies a failure
type Kind int

const (
	// KindStore is an unexpected failure from the underlying store.
	// Retryable at the caller's discretion; every other kind is a stable
	// outcome and must not be retried.
	KindStore Kind = iota
	// KindNotFound means a referenced entity does not exist
	KindNotFound
	// KindConflict means a uniqueness constraint was violated
	KindConflict
	// KindHierarchyViolation means a requirement's parent belongs to a
	// different badge
	KindHierarchyViolation
	// KindInvalidReference means a dangling foreign key, e.g. a missing
	// parent requirement
	KindInvalidReference
	// KindForbidden means the acting user's role does not permit the
	// operation
	KindForbidden
)

// String returns the kind name used in API error payloads
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindHierarchyViolation:
		return "hierarchy_violation"
	case KindInvalidReference:
		return "invalid_reference"
	case KindForbidden:
		return "forbidden"
	default:
		return "store_error"
	}
}

// Error carries a failure kind and reason through the call stack
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, reason string) error {
	return &Error{Kind: kind, Reason: reason}
}

// Newf creates an error of the given kind with a formatted reason
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and reason to an underlying error
func Wrap(kind Kind, reason string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Reason: reason, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindStore
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// ReasonOf extracts the human-readable reason from err
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return "internal error"
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Postgres error codes worth distinguishing. Uniqueness constraints are the
// sole mechanism resolving races between concurrent writers, so a unique
// violation surfaces as Conflict rather than a store error.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// FromStore maps a database error to the taxonomy. Unique violations become
// Conflict, foreign key violations InvalidReference; anything else is an
// opaque store error.
func FromStore(err error, reason string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return Wrap(KindConflict, reason, err)
		case pqForeignKeyViolation:
			return Wrap(KindInvalidReference, reason, err)
		case pqCheckViolation:
			return Wrap(KindInvalidReference, reason, err)
		}
	}
	return Wrap(KindStore, reason, err)
}
