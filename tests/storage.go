package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core/record"
)

// StorageContract runs the behaviour every record.Storage backend must share.
// s must be empty.
func StorageContract(t *testing.T, s record.Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "students")
	require.ErrorIs(t, err, record.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "students", `[{"id":"s1"}]`))
	require.NoError(t, s.Set(ctx, "classes", `[]`))
	val, err := s.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"s1"}]`, val)

	require.NoError(t, s.Set(ctx, "students", `[]`), "overwrite")
	val, err = s.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, `[]`, val)

	require.NoError(t, s.Set(ctx, "notices", `[{"id":"n1","title":"Holi – closed"}]`), "non ascii value")
	val, err = s.Get(ctx, "notices")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"n1","title":"Holi – closed"}]`, val)

	require.NoError(t, s.Delete(ctx, "students"))
	_, err = s.Get(ctx, "students")
	assert.ErrorIs(t, err, record.ErrKeyNotFound)
	assert.NoError(t, s.Delete(ctx, "students"), "deleting a missing key")

	val, err = s.Get(ctx, "classes")
	require.NoError(t, err)
	assert.Equal(t, `[]`, val, "other keys are untouched")
}
