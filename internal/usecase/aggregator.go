// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/naka-gawa/repo-insights/internal/cache"
	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/gateway"
	"golang.org/x/sync/singleflight"
)

// computeTimeout bounds a shared computation, which no longer follows the caller's deadline.
const computeTimeout = 2 * time.Minute

// Stores groups the caches of each endpoint. The standalone endpoints sample
// differently from the combined one, so their results are cached apart.
type Stores struct {
	Insights             cache.Store[domain.Insights]
	Aliveness            cache.Store[domain.AlivenessMetrics]
	ContributionOutcomes cache.Store[domain.ContributionOutcomesMetrics]
}

// NoStores disables caching for every endpoint.
func NoStores() Stores {
	return Stores{
		Insights:             cache.Noop[domain.Insights]{},
		Aliveness:            cache.Noop[domain.AlivenessMetrics]{},
		ContributionOutcomes: cache.Noop[domain.ContributionOutcomesMetrics]{},
	}
}

// Aggregator is the use case for computing repository metrics.
// It orchestrates the cache, the gateway and the metric composers.
type Aggregator struct {
	fetcher gateway.Fetcher
	stores  Stores
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, stores Stores, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		stores:  stores,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to anchor the metric windows.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Insights returns both metric sets, computed from a single combined upstream query.
func (a *Aggregator) Insights(ctx context.Context, repo domain.RepositoryIdentity) (domain.Insights, domain.Freshness, error) {
	return cached(ctx, a, a.stores.Insights, "insights", repo, func(ctx context.Context, now time.Time) (domain.Insights, error) {
		snapshot, err := a.fetcher.FetchInsights(ctx, repo, domain.NewWindows(now))
		if err != nil {
			return domain.Insights{}, err
		}
		return domain.Insights{
			Aliveness:            ComposeAliveness(snapshot.Aliveness, now),
			ContributionOutcomes: ComposeContributionOutcomes(snapshot.Outcomes),
		}, nil
	})
}

// Aliveness returns the aliveness metrics alone.
func (a *Aggregator) Aliveness(ctx context.Context, repo domain.RepositoryIdentity) (domain.AlivenessMetrics, domain.Freshness, error) {
	return cached(ctx, a, a.stores.Aliveness, "aliveness", repo, func(ctx context.Context, now time.Time) (domain.AlivenessMetrics, error) {
		snapshot, err := a.fetcher.FetchAliveness(ctx, repo, domain.NewWindows(now))
		if err != nil {
			return domain.AlivenessMetrics{}, err
		}
		return ComposeAliveness(*snapshot, now), nil
	})
}

// ContributionOutcomes returns the contribution outcome metrics alone, over the larger pull request sample.
func (a *Aggregator) ContributionOutcomes(ctx context.Context, repo domain.RepositoryIdentity) (domain.ContributionOutcomesMetrics, domain.Freshness, error) {
	return cached(ctx, a, a.stores.ContributionOutcomes, "contribution-outcomes", repo, func(ctx context.Context, _ time.Time) (domain.ContributionOutcomesMetrics, error) {
		snapshot, err := a.fetcher.FetchContributionOutcomes(ctx, repo)
		if err != nil {
			return domain.ContributionOutcomesMetrics{}, err
		}
		return ComposeContributionOutcomes(*snapshot), nil
	})
}

// Search passes a repository search through to the gateway. Results are not cached.
func (a *Aggregator) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	result, err := a.fetcher.SearchRepositories(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}
	return result, nil
}

// cached serves a valid entry from store, or computes, stores and returns a fresh value.
// Concurrent misses for the same endpoint and repository share one computation, which runs
// detached from any single caller's cancellation; each caller stops waiting when its own ctx ends.
// Cache failures are logged and never fail the request.
func cached[T any](
	ctx context.Context,
	a *Aggregator,
	store cache.Store[T],
	endpoint string,
	repo domain.RepositoryIdentity,
	compute func(ctx context.Context, now time.Time) (T, error),
) (T, domain.Freshness, error) {
	var zero T
	if err := repo.Validate(); err != nil {
		return zero, domain.FreshnessMiss, err
	}

	entry, ok, err := store.Get(ctx, repo)
	if err != nil {
		a.logger.Warn("cache lookup failed", "endpoint", endpoint, "repository", repo.String(), "error", err)
	}
	if ok {
		a.logger.Debug("cache hit", "endpoint", endpoint, "repository", repo.String())
		return entry.Data, domain.FreshnessHit, nil
	}

	ch := a.group.DoChan(endpoint+":"+repo.Key(), func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		result, err := compute(sharedCtx, a.now())
		if err != nil {
			return nil, err
		}
		if err := store.Put(sharedCtx, repo, result); err != nil {
			a.logger.Warn("cache store failed", "endpoint", endpoint, "repository", repo.String(), "error", err)
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return zero, domain.FreshnessMiss, fmt.Errorf("failed to compute %s for %s: %w", endpoint, repo, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, domain.FreshnessMiss, fmt.Errorf("failed to compute %s for %s: %w", endpoint, repo, res.Err)
		}
		a.logger.Debug("cache miss", "endpoint", endpoint, "repository", repo.String(), "shared", res.Shared)
		return res.Val.(T), domain.FreshnessMiss, nil
	}
}
