package store

import "errors"

// ErrNotFound is returned by Get when the requested slot has never been
// written or has been deleted.
var ErrNotFound = errors.New("slot not found")
