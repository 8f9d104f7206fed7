package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/storage/kv"
	"github.com/trezcool/schooladmin/storage/kv/bolt"
	"github.com/trezcool/schooladmin/storage/kv/inmem"
	"github.com/trezcool/schooladmin/storage/kv/sqlx"
	"github.com/trezcool/schooladmin/tests"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		engine  string
		wantTyp interface{}
		wantErr error
	}{
		{engine: kv.EngineMemory, wantTyp: &inmemkv.Store{}},
		{engine: kv.EngineBolt, wantTyp: &boltkv.Store{}},
		{engine: "", wantTyp: &boltkv.Store{}},
		{engine: kv.EngineSQL, wantTyp: &sqlxkv.Store{}},
		{engine: "cassandra", wantErr: kv.ErrUnknownEngine},
	}
	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			conf := testutil.NewConfig()
			conf.Storage.Engine = tt.engine
			conf.Storage.Path = filepath.Join(dir, tt.engine, "school.db")
			conf.Storage.Bucket = "localStorage"
			conf.Storage.SQL.Driver = "sqlite3"
			conf.Storage.SQL.DSN = filepath.Join(dir, "school.sqlite")
			conf.Storage.SQL.Table = "local_storage"
			logger := &testutil.Logger{}

			store, err := kv.Open(context.Background(), conf, logger)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, tt.wantTyp, store)
			testutil.StorageContract(t, store)
		})
	}
}
