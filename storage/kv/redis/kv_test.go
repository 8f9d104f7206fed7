package rediskv_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core/record"
	"github.com/trezcool/schooladmin/storage/kv/redis"
	"github.com/trezcool/schooladmin/tests"
)

func TestStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := "schooladmin-test:" + record.NewID() + ":"
	s, err := rediskv.Open(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0, prefix)
	require.NoError(t, err)
	defer s.Close()
	t.Cleanup(func() {
		for _, k := range []string{"students", "classes", "notices"} {
			_ = s.Delete(ctx, k)
		}
	})

	testutil.StorageContract(t, s)
}

func TestOpen_unreachable(t *testing.T) {
	_, err := rediskv.Open(context.Background(), "127.0.0.1:1", "", 0, "")
	require.Error(t, err)
}
