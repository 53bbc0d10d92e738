package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/naka-gawa/repo-insights/internal/cache"
	"github.com/naka-gawa/repo-insights/internal/config"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/gateway"
	"github.com/naka-gawa/repo-insights/internal/usecase"
	"github.com/spf13/viper"
)

var errMissingToken = errors.New("GITHUB_TOKEN environment variable is not set")

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper(), os.Getenv)
}

// newLogger logs to stderr. Verbose enables debug output; otherwise only records at
// level and above are kept, and a nil level discards everything.
func newLogger(w io.Writer, verbose bool, level *slog.Level) *slog.Logger {
	switch {
	case verbose:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case level != nil:
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: *level}))
	default:
		return slog.New(slog.DiscardHandler)
	}
}

// newStores builds the per-endpoint caches for the configured backend.
// The returned close function releases the backend connection.
func newStores(ctx context.Context, c config.CacheConfig) (usecase.Stores, func() error, error) {
	noClose := func() error { return nil }
	switch c.Backend {
	case config.NoneBackend:
		return usecase.NoStores(), noClose, nil
	case config.RedisBackend:
		client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err != nil {
			return usecase.Stores{}, nil, err
		}
		return usecase.Stores{
			Insights:             cache.NewRedisStore[domain.Insights](client, "insights", c.TTL),
			Aliveness:            cache.NewRedisStore[domain.AlivenessMetrics](client, "aliveness", c.TTL),
			ContributionOutcomes: cache.NewRedisStore[domain.ContributionOutcomesMetrics](client, "contribution-outcomes", c.TTL),
		}, client.Close, nil
	default:
		return usecase.Stores{
			Insights:             cache.NewMemoryStore[domain.Insights](c.TTL),
			Aliveness:            cache.NewMemoryStore[domain.AlivenessMetrics](c.TTL),
			ContributionOutcomes: cache.NewMemoryStore[domain.ContributionOutcomesMetrics](c.TTL),
		}, noClose, nil
	}
}

// newAggregator wires the gateway and the caches into the use case.
func newAggregator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*usecase.Aggregator, func() error, error) {
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHubToken, logger)
	if err != nil {
		return nil, nil, err
	}
	stores, closeStores, err := newStores(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	return usecase.NewAggregator(githubGateway, stores, logger), closeStores, nil
}
