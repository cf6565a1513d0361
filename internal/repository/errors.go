package repository

import "errors"

// ErrConcurrencyConflict is returned by version-checked writes when the row
// changed (or vanished) after it was read.
var ErrConcurrencyConflict = errors.New("row modified concurrently")
