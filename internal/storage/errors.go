// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across storage implementations

package storage

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when creating an entity whose name or id is taken.
var ErrDuplicate = errors.New("already exists")
