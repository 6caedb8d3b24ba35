package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNavigationTimeout = errors.New("navigation timeout")
	ErrEmptyResult       = errors.New("empty result")
	ErrMalformedItem     = errors.New("malformed item")
	ErrStoreWrite        = errors.New("store write failure")
	ErrQueryStore        = errors.New("query store failure")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrDuplicateSource   = errors.New("duplicate source")
	ErrUnknownSource     = errors.New("unknown source")
)

// A StoreWriteError is returned when a bulk insert is rejected.
type StoreWriteError struct {
	Attempted int
	Err       error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf(
		"%s: %d items attempted: %v", ErrStoreWrite, e.Attempted, e.Err,
	)
}

func (e *StoreWriteError) Unwrap() []error {
	return []error{ErrStoreWrite, e.Err}
}
