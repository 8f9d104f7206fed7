package dummykv

import (
	"context"
	"sync"

	"github.com/trezcool/schooladmin/core/record"
)

// Storage is a map backed record.Storage for tests and throwaway runs.
// Its exported error fields make the matching operation fail.
type Storage struct {
	sync.RWMutex
	table map[string]string

	GetErr    error
	SetErr    error
	DeleteErr error

	// Writes counts successful Set and Delete calls.
	Writes int
}

var _ record.Storage = (*Storage)(nil) // interface compliance check

func Open() *Storage {
	return &Storage{table: make(map[string]string)}
}

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.RLock()
	defer s.RUnlock()

	if s.GetErr != nil {
		return "", s.GetErr
	}
	val, ok := s.table[key]
	if !ok {
		return "", record.ErrKeyNotFound
	}
	return val, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.Lock()
	defer s.Unlock()

	if s.SetErr != nil {
		return s.SetErr
	}
	s.table[key] = value
	s.Writes++
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.Lock()
	defer s.Unlock()

	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.table, key)
	s.Writes++
	return nil
}

// Raw returns the value stored at key, bypassing the error fields.
func (s *Storage) Raw(key string) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	val, ok := s.table[key]
	return val, ok
}

// Snapshot returns a copy of every key and value.
func (s *Storage) Snapshot() map[string]string {
	s.RLock()
	defer s.RUnlock()
	snap := make(map[string]string, len(s.table))
	for k, v := range s.table {
		snap[k] = v
	}
	return snap
}
