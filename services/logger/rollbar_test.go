package logsvc_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/services/logger"
	"github.com/trezcool/schooladmin/tests"
)

func TestRollbarLogger_mirrorsToZap(t *testing.T) {
	var buf bytes.Buffer
	zl, err := logsvc.NewZapLogger(&buf, "logfmt", "info")
	require.NoError(t, err)

	l := logsvc.NewRollbarLogger(zl, testutil.NewConfig())
	l.Enable(false)
	defer l.Wait()

	l.Error("writing fees", errors.New("disk full"), map[string]interface{}{"collection": "fees"})
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, `error="disk full"`)
	assert.Contains(t, out, "collection=fees")
	assert.NotContains(t, out, "hidden")
	assert.Same(t, zl.Zap(), l.Zap())
}
