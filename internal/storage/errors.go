// ABOUTME: Sentinel errors returned by the storage layer.
package storage

import "errors"

// ErrNotFound indicates a requested record does not exist.
var ErrNotFound = errors.New("not found")
