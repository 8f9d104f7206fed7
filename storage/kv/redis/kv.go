package rediskv

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/schooladmin/core/record"
)

// Store is a record.Storage keeping every value under prefix+key in redis.
type Store struct {
	Client *redis.Client
	prefix string
}

var _ record.Storage = (*Store)(nil) // interface compliance check

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{Client: client, prefix: prefix}
}

// Open connects to the redis server at addr and checks it answers.
func Open(ctx context.Context, addr, password string, db int, prefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}
	return NewStore(client, prefix), nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.Client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", record.ErrKeyNotFound
		}
		return "", errors.Wrapf(err, "redis GET %s", s.key(key))
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.Client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis SET %s", s.key(key))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Wrapf(err, "redis DEL %s", s.key(key))
	}
	return nil
}

func (s *Store) Close() error {
	return s.Client.Close()
}
