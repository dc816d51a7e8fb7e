package storage

import "errors"

var (
	// ErrNoBackends is returned when the backends table is empty.
	ErrNoBackends = errors.New("no backends configured in database")
)
