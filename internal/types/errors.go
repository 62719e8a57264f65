// internal/types/errors.go
package types

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures so the outer boundary can decide how to
// report them.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotEligible
	KindValidationFailed
	KindClassifierTransient
	KindClassifierPermanent
	KindMutationFailed
	KindAuthorizationDenied
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNotEligible:
		return "not_eligible"
	case KindValidationFailed:
		return "validation_failed"
	case KindClassifierTransient:
		return "classifier_transient"
	case KindClassifierPermanent:
		return "classifier_permanent"
	case KindMutationFailed:
		return "mutation_failed"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a kinded error. Op names the failing operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a kinded error.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindAuthorizationDenied for an *AuthorizationError.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ae *AuthorizationError
	if errors.As(err, &ae) {
		return KindAuthorizationDenied
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// AuthorizationError is returned when the invoking user may not perform an
// action. Its message is shown to the user verbatim.
type AuthorizationError struct {
	Action  string
	Subject string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("You don't have permission to %s this %s.", e.Action, e.Subject)
}
