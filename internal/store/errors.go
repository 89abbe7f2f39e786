package store

import (
	"errors"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrZoneNotFound is returned when the requested zone does not exist.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrZoneAlreadyExists is returned when creating a zone whose name is taken.
	ErrZoneAlreadyExists = errors.New("zone already exists")

	// ErrZoneNameEmpty is returned when an operation is given an empty name.
	ErrZoneNameEmpty = errors.New("zone name cannot be empty")
)
