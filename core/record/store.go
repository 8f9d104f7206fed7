package record

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core"
)

// Store persists a collection of T under a single key.
type Store[T Record] struct {
	db     Storage
	key    string
	logger core.Logger
}

func NewStore[T Record](db Storage, key string, logger core.Logger) *Store[T] {
	if logger == nil {
		logger = discard{}
	}
	return &Store[T]{db: db, key: key, logger: logger}
}

// Key returns the collection key.
func (s *Store[T]) Key() string { return s.key }

// load reads the whole collection.
// A value that cannot be decoded is logged and reported as corrupt; the collection then reads as empty.
func (s *Store[T]) load(ctx context.Context) (items []T, corrupt bool, err error) {
	raw, err := s.db.Get(ctx, s.key)
	if err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return []T{}, false, nil
		}
		return nil, false, errors.Wrapf(err, "reading %s", s.key)
	}
	if raw == "" {
		return []T{}, false, nil
	}

	if err = json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Error(fmt.Sprintf("Error reading %s from storage", s.key), err)
		return []T{}, true, nil
	}
	if items == nil { // "null"
		items = []T{}
	}
	return items, false, nil
}

// AllForWrite returns every record for a caller that will write the collection back.
// Unlike GetAll it returns ErrCorrupted for a value that cannot be decoded, so the
// corrupt value is never overwritten by a read-modify-write.
func (s *Store[T]) AllForWrite(ctx context.Context) ([]T, error) {
	items, corrupt, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if corrupt {
		return nil, errors.Wrap(ErrCorrupted, s.key)
	}
	return items, nil
}

func (s *Store[T]) index(items []T, id string) int {
	for i, item := range items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

// GetAll returns every record of the collection, in stored order.
// A missing key or a corrupt value yields an empty slice.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	items, _, err := s.load(ctx)
	return items, err
}

// SetAll overwrites the collection with items.
// On failure the previously stored value is left untouched.
func (s *Store[T]) SetAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Error saving %s to storage", s.key), err)
		return errors.Wrapf(err, "encoding %s", s.key)
	}
	if err = s.db.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Error(fmt.Sprintf("Error saving %s to storage", s.key), err)
		return errors.Wrapf(err, "writing %s", s.key)
	}
	return nil
}

// Add appends item to the collection.
func (s *Store[T]) Add(ctx context.Context, item T) error {
	id := item.RecordID()
	if id == "" {
		return ErrMissingID
	}
	items, err := s.AllForWrite(ctx)
	if err != nil {
		return err
	}
	if s.index(items, id) != -1 {
		return ErrDuplicateID
	}
	return s.SetAll(ctx, append(items, item))
}

// Update replaces the record identified by id with item.
// It returns ErrNotFound, and writes nothing, when no record has that id.
func (s *Store[T]) Update(ctx context.Context, id string, item T) error {
	if item.RecordID() != id {
		return ErrIDMismatch
	}
	items, err := s.AllForWrite(ctx)
	if err != nil {
		return err
	}
	idx := s.index(items, id)
	if idx == -1 {
		return ErrNotFound
	}
	items[idx] = item
	return s.SetAll(ctx, items)
}

// Delete removes the record identified by id.
// It returns ErrNotFound, and writes nothing, when no record has that id.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	items, err := s.AllForWrite(ctx)
	if err != nil {
		return err
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return ErrNotFound
	}
	return s.SetAll(ctx, kept)
}

// FindByID returns the first record with the given id.
func (s *Store[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := s.GetAll(ctx)
	if err != nil {
		return zero, err
	}
	if idx := s.index(items, id); idx != -1 {
		return items[idx], nil
	}
	return zero, ErrNotFound
}

// Empty reports whether the collection holds no record.
// A corrupt collection is not empty: Empty returns ErrCorrupted for it.
func (s *Store[T]) Empty(ctx context.Context) (bool, error) {
	items, err := s.AllForWrite(ctx)
	if err != nil {
		return false, err
	}
	return len(items) == 0, nil
}

// Filter returns the records matching keep, in stored order.
func (s *Store[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(items, keep), nil
}

// Count returns the number of records in the collection.
func (s *Store[T]) Count(ctx context.Context) (int, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Filter returns the elements of items matching keep. It never returns nil.
func Filter[T any](items []T, keep func(T) bool) []T {
	filtered := make([]T, 0)
	for _, item := range items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

type discard struct{}

func (discard) Debug(string, ...interface{}) {}
func (discard) Info(string, ...interface{})  {}
func (discard) Warn(string, ...interface{})  {}
func (discard) Error(string, ...interface{}) {}
func (discard) Fatal(string, ...interface{}) {}
