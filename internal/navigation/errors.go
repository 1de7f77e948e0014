package navigation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSuchPassage   = errors.New("no such passage")
	ErrItemNotPresent  = errors.New("item not present")
	ErrItemAlreadyHeld = errors.New("item already held")
	ErrUnknownLocation = errors.New("unknown location")
	ErrNoRoute         = errors.New("no route")
)

// MissingRequirementsError is returned when a move is refused because the
// destination requires items the traveler does not hold.
type MissingRequirementsError struct {
	Location string
	// Missing is sorted lexicographically.
	Missing []string
	// Encounter lists the same items in the order the location declares them.
	Encounter []string
}

func (e *MissingRequirementsError) Error() string {
	return fmt.Sprintf("cannot enter %s: missing %s", e.Location, strings.Join(e.Missing, ", "))
}
