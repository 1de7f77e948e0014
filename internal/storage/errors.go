package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNoSavedData      = errors.New("no saved data")
	ErrTravelerNotFound = errors.New("traveler not found")
	ErrUnavailable      = errors.New("persistence unavailable")
)

// UnknownLocationError is returned by Load when the saved location no longer
// exists in the world, usually because the world definition changed.
type UnknownLocationError struct {
	Location string
}

func (e *UnknownLocationError) Error() string {
	return fmt.Sprintf("saved location %q not found", e.Location)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
