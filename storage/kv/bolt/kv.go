package boltkv

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/trezcool/schooladmin/core/record"
)

var errNotOpen = errors.New("bolt store is not open")

// Store is a record.Storage backed by a single boltdb bucket.
type Store struct {
	path   string
	bucket []byte
	db     *bolt.DB
	logger *zap.Logger
}

var _ record.Storage = (*Store)(nil) // interface compliance check

// NewStore returns a Store keeping its values in bucket of the file at path.
func NewStore(path, bucket string) *Store {
	return &Store{
		path:   path,
		bucket: []byte(bucket),
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger on the store.
func (s *Store) WithLogger(l *zap.Logger) {
	s.logger = l
}

// Open creates the bolt file if it doesn't exist and opens it otherwise.
func (s *Store) Open(_ context.Context) error {
	// Ensure the required directory structure exists.
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrapf(err, "creating directory of %s", s.path)
	}

	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return errors.Wrap(err, "opening bolt file")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return errors.Wrapf(err, "creating bucket %s", s.bucket)
	}
	s.db = db

	s.logger.Info("Resources opened", zap.String("path", s.path), zap.ByteString("bucket", s.bucket))
	return nil
}

// Close the connection to the bolt database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	if s.db == nil {
		return "", errNotOpen
	}
	var val string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return record.ErrKeyNotFound
		}
		val = string(v) // v is only valid during the transaction
		return nil
	})
	return val, err
}

func (s *Store) Set(_ context.Context, key, value string) error {
	if s.db == nil {
		return errNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), []byte(value))
	})
}

func (s *Store) Delete(_ context.Context, key string) error {
	if s.db == nil {
		return errNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// Keys returns every key of the bucket in byte order.
func (s *Store) Keys() ([]string, error) {
	if s.db == nil {
		return nil, errNotOpen
	}
	keys := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}
