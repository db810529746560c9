package store

import (
	"errors"
	"fmt"
)

// Kind classifies a StoreError.
type Kind int

const (
	// NotFound means no result exists under the requested ID.
	NotFound Kind = iota + 1
	// IOFailure means the backing storage failed. The operation may be retried.
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case IOFailure:
		return "io failure"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound matches a NotFound StoreError with errors.Is.
	ErrNotFound = errors.New("settlement result not found")
	// ErrIO matches an IOFailure StoreError with errors.Is.
	ErrIO = errors.New("settlement store failure")
	// ErrClosed is wrapped by operations on a closed store.
	ErrClosed = errors.New("store is closed")
)

// StoreError is returned by Store implementations. It never originates from
// the settlement engine.
type StoreError struct {
	Kind Kind
	Op   string
	ID   string
	Err  error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.ID != "" {
		msg += fmt.Sprintf(" (id %s)", e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches ErrNotFound and ErrIO by kind.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == NotFound
	case ErrIO:
		return e.Kind == IOFailure
	}
	return false
}

// Retryable reports whether err is a store failure worth retrying.
func Retryable(err error) bool {
	var sErr *StoreError
	return errors.As(err, &sErr) && sErr.Kind == IOFailure
}

func notFound(op, id string) error {
	return &StoreError{Kind: NotFound, Op: op, ID: id}
}

func ioFailure(op string, err error) error {
	return &StoreError{Kind: IOFailure, Op: op, Err: err}
}
