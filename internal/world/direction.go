package world

import "strings"

// Direction is a compass heading used to key passages.
type Direction string

const (
	North Direction = "north"
	South Direction = "south"
	East  Direction = "east"
	West  Direction = "west"
)

// Directions lists the compass set in display order.
var Directions = []Direction{North, South, East, West}

// ParseDirection matches s against the compass set ignoring case.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case North, South, East, West:
		return d, true
	}
	return "", false
}

func (d Direction) String() string {
	return string(d)
}
