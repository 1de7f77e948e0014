package world

import "errors"

var (
	ErrLocationExists   = errors.New("location already exists")
	ErrLocationNotFound = errors.New("location not found")
	ErrInvalidDirection = errors.New("invalid direction")
)
