package apperror

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable category of a failure surfaced to the HTTP layer.
type Kind string

const (
	// StorageUnavailable reports a failed query or transaction against the data store.
	StorageUnavailable Kind = "StorageUnavailable"
	// UpstreamFetchFailed reports that the external feed was unreachable,
	// answered with a non-2xx status, or returned an undecodable body.
	UpstreamFetchFailed Kind = "UpstreamFetchFailed"
	// InvalidFilter reports malformed or out-of-range filter parameters.
	InvalidFilter Kind = "InvalidFilter"
	// Internal is used for anything that was not classified.
	Internal Kind = "Internal"
)

// Error carries a Kind, a human-readable detail and the wrapped cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Detail != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an Error without a wrapped cause.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap builds an Error around err. A nil err yields nil.
func Wrap(kind Kind, detail string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Storage wraps err as StorageUnavailable.
func Storage(detail string, err error) error { return Wrap(StorageUnavailable, detail, err) }

// Upstream wraps err as UpstreamFetchFailed.
func Upstream(detail string, err error) error { return Wrap(UpstreamFetchFailed, detail, err) }

// KindOf returns the Kind of the first *Error in err's chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// DetailOf returns the most useful human-readable text for err.
func DetailOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Detail
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
