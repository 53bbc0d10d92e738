package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getenvFrom(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v, getenvFrom(map[string]string{"GITHUB_TOKEN": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.GitHubToken)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, MemoryBackend, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 5.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.TrustProxy)
	assert.False(t, cfg.Verbose)
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name           string
		values         map[string]any
		expectedErrMsg string
	}{
		{name: "malformed ttl", values: map[string]any{"cache-ttl": "soon"}, expectedErrMsg: "invalid cache-ttl"},
		{name: "zero ttl", values: map[string]any{"cache-ttl": "0s"}, expectedErrMsg: "must be positive"},
		{name: "unknown backend", values: map[string]any{"cache": "disk"}, expectedErrMsg: "invalid cache backend"},
		{name: "redis without address", values: map[string]any{"cache": "redis", "redis-addr": ""}, expectedErrMsg: "redis-addr is required"},
		{name: "negative burst", values: map[string]any{"rate-limit-burst": -1}, expectedErrMsg: "invalid rate-limit-burst"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			for k, val := range tc.values {
				v.Set(k, val)
			}

			_, err := Load(v, getenvFrom(nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErrMsg)
		})
	}
}

func TestLoad_BackendIsCaseInsensitive(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("cache", "REDIS")
	v.Set("redis-addr", "cache:6379")

	cfg, err := Load(v, getenvFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, RedisBackend, cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
}

func TestInit_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REPO_INSIGHTS_CACHE_TTL", "90s")
	t.Setenv("REPO_INSIGHTS_RATE_LIMIT_RPS", "0.5")
	t.Setenv("REPO_INSIGHTS_TRUST_PROXY", "true")

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v, getenvFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
	assert.True(t, cfg.RateLimit.TrustProxy)
}

func TestInit_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache: none\naddr: \":9090\"\n"), 0o600))

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v, getenvFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, NoneBackend, cfg.Cache.Backend)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestInit_MissingExplicitConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	err := Init(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}
