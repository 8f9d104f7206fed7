// Package kv opens the record.Storage backend selected by the configuration.
package kv

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/storage/kv/bolt"
	"github.com/trezcool/schooladmin/storage/kv/inmem"
	"github.com/trezcool/schooladmin/storage/kv/redis"
	"github.com/trezcool/schooladmin/storage/kv/sqlx"
)

const (
	EngineBolt   = "bolt"
	EngineRedis  = "redis"
	EngineSQL    = "sql"
	EngineMemory = "memory"
)

var ErrUnknownEngine = errors.New("unknown storage engine")

// Store is a record.Storage holding resources until closed.
type Store interface {
	record.Storage
	Close() error
}

// Open opens the backend named by conf.Storage.Engine.
func Open(ctx context.Context, conf *core.Config, logger core.Logger) (Store, error) {
	sc := conf.Storage
	switch sc.Engine {
	case EngineBolt, "":
		store := boltkv.NewStore(sc.Path, sc.Bucket)
		if zl, ok := logger.(interface{ Zap() *zap.Logger }); ok {
			store.WithLogger(zl.Zap().With(zap.String("service", "bolt")))
		}
		if err := store.Open(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case EngineRedis:
		store, err := rediskv.Open(ctx, sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB, sc.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis", map[string]interface{}{"addr": sc.Redis.Addr})
		return store, nil

	case EngineSQL:
		store, err := sqlxkv.Open(ctx, sc.SQL.Driver, sc.SQL.DSN, sc.SQL.Table)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to database", map[string]interface{}{"driver": sc.SQL.Driver, "table": sc.SQL.Table})
		return store, nil

	case EngineMemory:
		logger.Warn("using in-memory storage: data is lost on exit")
		return inmemkv.NewStore(), nil
	}
	return nil, errors.Wrap(ErrUnknownEngine, sc.Engine)
}
