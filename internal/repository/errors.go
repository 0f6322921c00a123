package repository

import "errors"

// ErrNotFound is returned for id or email lookups that match no document,
// including malformed hex ids, which can never name one.
var ErrNotFound = errors.New("document not found")
