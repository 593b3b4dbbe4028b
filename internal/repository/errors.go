package repository

import (
	"errors"
	"fmt"
)

// Kind classifies a storage failure independently of the driver that
// produced it.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Sentinels matched by errors.Is against any *StoreError of the same kind.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("store unavailable")
	ErrInternal    = errors.New("store failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindUnavailable:
		return ErrUnavailable
	default:
		return ErrInternal
	}
}

// StoreError is the only error type returned by stores. Op names the
// operation that failed, e.g. "messages.insert".
type StoreError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) and friends match on Kind.
func (e *StoreError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, op string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

func notFound(op string) error {
	return newError(KindNotFound, op, nil)
}

// KindOf returns the kind of a store error, or KindInternal for anything
// else.
func KindOf(err error) Kind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
