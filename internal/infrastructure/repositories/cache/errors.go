package cache

import "errors"

var (
	// ErrKeyNotFound marks a read for a key the backend has never stored
	ErrKeyNotFound = errors.New("key not found")
)
