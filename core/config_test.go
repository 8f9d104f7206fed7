package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/schooladmin/core"
)

func TestNewConfig_defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("CONFIG_DIR", t.TempDir())

	conf, err := core.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "DEV", conf.Env)
	assert.False(t, conf.TestMode)
	assert.Equal(t, "bolt", conf.Storage.Engine)
	assert.Equal(t, filepath.Join("data", "schooladmin.db"), conf.Storage.Path)
	assert.Equal(t, "localStorage", conf.Storage.Bucket)
	assert.True(t, conf.Seed.OnStart)
	assert.Equal(t, 50, conf.Seed.Students)
	assert.Equal(t, 10, conf.Seed.Teachers)
	assert.Equal(t, core.SalaryConfig{DefaultBasic: 30000, DefaultAllowances: 5000, DefaultDeductions: 2000}, conf.Salary)
}

func TestNewConfig_envAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	dotEnv := "TEST_APPNAME=Green Valley School\nTEST_STORAGEENGINE=redis\nTEST_SEEDSTUDENTS=5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(dotEnv), 0600))
	t.Setenv("ENV", "test")
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("TEST_STORAGEENGINE", " SQL ") // the environment wins over the dotenv file
	t.Setenv("TEST_REDISDB", "2")

	conf, err := core.NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "TEST", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, "Green Valley School", conf.AppName)
	assert.Equal(t, "sql", conf.Storage.Engine)
	assert.Equal(t, 2, conf.Storage.Redis.DB)
	assert.Equal(t, 5, conf.Seed.Students)

	// godotenv exported these; keep them from leaking into other tests
	for _, k := range []string{"TEST_APPNAME", "TEST_SEEDSTUDENTS"} {
		require.NoError(t, os.Unsetenv(k))
	}
}
