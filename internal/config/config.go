// Package config resolves the application configuration from flags, environment and config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CacheBackend selects where computed metrics are cached.
type CacheBackend string

const (
	MemoryBackend CacheBackend = "memory"
	RedisBackend  CacheBackend = "redis"
	NoneBackend   CacheBackend = "none"
)

// EnvPrefix prefixes every environment variable read through viper.
const EnvPrefix = "REPO_INSIGHTS"

// Config is the validated configuration.
type Config struct {
	GitHubToken string
	Verbose     bool
	Server      ServerConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type CacheConfig struct {
	Backend       CacheBackend
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
	// TrustProxy makes forwarding headers, not the peer address, identify the client.
	TrustProxy bool
}

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("cache", string(MemoryBackend))
	v.SetDefault("cache-ttl", "5m")
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("redis-password", "")
	v.SetDefault("redis-db", 0)
	v.SetDefault("rate-limit-rps", 5.0)
	v.SetDefault("rate-limit-burst", 10)
	v.SetDefault("trust-proxy", false)
	v.SetDefault("verbose", false)
}

// Init prepares v to read .env, the environment and an optional config file.
// An explicit configFile must exist; the default .repo-insights.yaml may be absent.
func Init(v *viper.Viper, configFile string) error {
	// A missing .env file is fine.
	_ = godotenv.Load()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".repo-insights")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Load builds and validates a Config from v. GITHUB_TOKEN is read unprefixed, as GitHub tooling does.
func Load(v *viper.Viper, getenv func(string) string) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("cache-ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache-ttl: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid cache-ttl: must be positive, got %s", ttl)
	}

	cfg := &Config{
		GitHubToken: getenv("GITHUB_TOKEN"),
		Verbose:     v.GetBool("verbose"),
		Server: ServerConfig{
			Addr:            v.GetString("addr"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			Backend:       CacheBackend(strings.ToLower(v.GetString("cache"))),
			TTL:           ttl,
			RedisAddr:     v.GetString("redis-addr"),
			RedisPassword: v.GetString("redis-password"),
			RedisDB:       v.GetInt("redis-db"),
		},
		RateLimit: RateLimitConfig{
			RPS:        v.GetFloat64("rate-limit-rps"),
			Burst:      v.GetInt("rate-limit-burst"),
			TrustProxy: v.GetBool("trust-proxy"),
		},
	}

	switch cfg.Cache.Backend {
	case MemoryBackend, NoneBackend:
	case RedisBackend:
		if cfg.Cache.RedisAddr == "" {
			return nil, fmt.Errorf("redis-addr is required when cache=redis")
		}
	default:
		return nil, fmt.Errorf("invalid cache backend %q: want memory, redis or none", cfg.Cache.Backend)
	}
	if cfg.RateLimit.Burst < 0 {
		return nil, fmt.Errorf("invalid rate-limit-burst: %d", cfg.RateLimit.Burst)
	}
	return cfg, nil
}
