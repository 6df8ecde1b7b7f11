package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Parallelism)
	assert.Equal(t, cfg.Parallelism*4, cfg.PoolSize)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "gostream", cfg.Metrics.Namespace)
	assert.False(t, cfg.Metrics.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero parallelism", func(c *Config) { c.Parallelism = 0 }, "parallelism must be positive"},
		{"negative pool", func(c *Config) { c.PoolSize = -1 }, "pool_size must be positive"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "logging.format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
parallelism: 3
pool_size: 7
log:
  level: debug
  format: console
metrics:
  enabled: true
  namespace: demo
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(LoaderConfig{ConfigFile: path, EnvPrefix: "STREAMTEST_YAML"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, 7, cfg.PoolSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "demo", cfg.Metrics.Namespace)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: 3\n"), 0o644))

	t.Setenv("STREAMTEST_ENV_PARALLELISM", "5")
	t.Setenv("STREAMTEST_ENV_LOG_LEVEL", "error")

	cfg, err := Load(LoaderConfig{ConfigFile: path, EnvPrefix: "STREAMTEST_ENV"})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Parallelism)
	assert.Equal(t, 20, cfg.PoolSize)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("STREAMTEST_DOTENV_POOL_SIZE=11\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("STREAMTEST_DOTENV_POOL_SIZE") })

	cfg, err := Load(LoaderConfig{EnvFile: envPath, EnvPrefix: "STREAMTEST_DOTENV"})
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.PoolSize)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(LoaderConfig{ConfigFile: filepath.Join(t.TempDir(), "absent.yml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("STREAMTEST_BAD_LOG_FORMAT", "xml")
	_, err := Load(LoaderConfig{EnvPrefix: "STREAMTEST_BAD"})
	require.Error(t, err)
}
