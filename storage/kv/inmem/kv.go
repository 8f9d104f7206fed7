package inmemkv

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/trezcool/schooladmin/core/record"
)

// Store is an in memory btree backed record.Storage.
type Store struct {
	mu    sync.RWMutex
	btree *btree.BTree
}

var _ record.Storage = (*Store)(nil) // interface compliance check

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{btree: btree.New(2)}
}

type item struct {
	key   string
	value string
}

// Less is used to implement btree.Item.
func (i *item) Less(b btree.Item) bool {
	j, ok := b.(*item)
	if !ok {
		return false
	}
	return i.key < j.key
}

// Get retrieves the value at the provided key.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.btree.Get(&item{key: key})
	if i == nil {
		return "", record.ErrKeyNotFound
	}
	it, ok := i.(*item)
	if !ok {
		return "", record.ErrKeyNotFound
	}
	return it.value, nil
}

// Set sets the key value pair provided.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.btree.ReplaceOrInsert(&item{key: key, value: value})
	return nil
}

// Delete removes the key provided.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.btree.Delete(&item{key: key})
	return nil
}

// Keys returns every stored key in ascending order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, s.btree.Len())
	s.btree.Ascend(func(i btree.Item) bool {
		if it, ok := i.(*item); ok {
			keys = append(keys, it.key)
		}
		return true
	})
	return keys
}

// Flush removes every key.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.btree.Clear(false)
}

func (s *Store) Close() error { return nil }
