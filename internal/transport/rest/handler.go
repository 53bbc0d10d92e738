// Package rest exposes the repository metrics over HTTP.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/naka-gawa/repo-insights/internal/domain"
	"github.com/naka-gawa/repo-insights/internal/metrics"
)

// cacheControl lets shared caches keep a response for the same five minutes as the server cache.
const cacheControl = "public, s-maxage=300, stale-while-revalidate=600"

// Service is what the handlers need from the use case layer.
type Service interface {
	Insights(ctx context.Context, repo domain.RepositoryIdentity) (domain.Insights, domain.Freshness, error)
	Aliveness(ctx context.Context, repo domain.RepositoryIdentity) (domain.AlivenessMetrics, domain.Freshness, error)
	ContributionOutcomes(ctx context.Context, repo domain.RepositoryIdentity) (domain.ContributionOutcomesMetrics, domain.Freshness, error)
	Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error)
}

// Handler serves the /api/projects endpoints.
type Handler struct {
	service Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewHandler(service Service, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{service: service, metrics: m, logger: logger}
}

// Insights serves GET /api/projects/{owner}/{repo}/insights.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	serveMetrics(h, w, r, "insights", "Failed to fetch insights", h.service.Insights)
}

// Aliveness serves GET /api/projects/{owner}/{repo}/aliveness.
func (h *Handler) Aliveness(w http.ResponseWriter, r *http.Request) {
	serveMetrics(h, w, r, "aliveness", "Failed to fetch aliveness metrics", h.service.Aliveness)
}

// ContributionOutcomes serves GET /api/projects/{owner}/{repo}/contribution-outcomes.
func (h *Handler) ContributionOutcomes(w http.ResponseWriter, r *http.Request) {
	serveMetrics(h, w, r, "contribution-outcomes", "Failed to fetch contribution outcomes metrics", h.service.ContributionOutcomes)
}

// Projects serves GET /api/projects, a repository search.
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	params := r.URL.Query()
	q := domain.SearchQuery{
		Search:   params.Get("search"),
		Language: params.Get("language"),
		Sort:     params.Get("sort"),
		Page:     1,
	}
	if raw := params.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			jsonErr(w, http.StatusBadRequest, "invalid page")
			return
		}
		q.Page = page
	}

	result, err := h.service.Search(r.Context(), q)
	if err != nil {
		h.logger.Error("GitHub search failed", "error", err)
		h.metrics.ObserveUpstreamError("projects")
		jsonErr(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	jsonResp(w, http.StatusOK, result)
}

// serveMetrics resolves the repository from the path, runs fetch and writes a cache-aware JSON response.
func serveMetrics[T any](
	h *Handler,
	w http.ResponseWriter,
	r *http.Request,
	endpoint, failure string,
	fetch func(context.Context, domain.RepositoryIdentity) (T, domain.Freshness, error),
) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	repo := domain.RepositoryIdentity{Owner: r.PathValue("owner"), Name: r.PathValue("repo")}
	if err := repo.Validate(); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid repository")
		return
	}

	data, freshness, err := fetch(r.Context(), repo)
	switch {
	case errors.Is(err, domain.ErrInvalidRepository):
		jsonErr(w, http.StatusBadRequest, "invalid repository")
		return
	case errors.Is(err, domain.ErrRepositoryNotFound):
		jsonErr(w, http.StatusNotFound, "repository not found")
		return
	case err != nil:
		h.logger.Error("GitHub GraphQL API error", "endpoint", endpoint, "repository", repo.String(), "error", err)
		h.metrics.ObserveUpstreamError(endpoint)
		jsonErr(w, http.StatusInternalServerError, failure)
		return
	}

	h.metrics.ObserveCache(endpoint, freshness)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Cache", string(freshness))
	jsonResp(w, http.StatusOK, data)
}

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	jsonResp(w, status, map[string]string{"error": msg})
}
