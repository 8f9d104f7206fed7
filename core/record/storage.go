// Package record implements a collection-keyed JSON record store on top of a
// plain string key-value storage port.
//
// Every collection lives under one key as a JSON array. Each operation reads the
// whole array, works on it in memory and writes the whole array back: there is no
// indexing, no transaction and no locking beyond what the storage backend offers.
package record

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrKeyNotFound is returned by a Storage when the requested key is absent.
	ErrKeyNotFound = errors.New("key not found")

	ErrNotFound    = errors.New("record not found")
	ErrMissingID   = errors.New("record id is required")
	ErrDuplicateID = errors.New("a record with this id already exists")
	ErrIDMismatch  = errors.New("record id does not match the id being updated")
	ErrCorrupted   = errors.New("stored collection is corrupted")
)

// Storage is the key-value port the record store persists through.
type Storage interface {
	// Get returns the value stored at key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value at key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
