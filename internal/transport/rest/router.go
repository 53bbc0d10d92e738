package rest

import (
	"log/slog"
	"net/http"

	"github.com/naka-gawa/repo-insights/internal/metrics"
)

// NewRouter registers every route and wraps the mux in the middleware chain.
func NewRouter(h *Handler, m *metrics.Metrics, limiter *Limiter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Probes and scraping bypass the rate limiter.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", m.Handler())

	limited := func(fn http.HandlerFunc) http.Handler {
		return limiter.Middleware(m, fn)
	}
	mux.Handle("/api/projects", limited(h.Projects))
	mux.Handle("/api/projects/{owner}/{repo}/insights", limited(h.Insights))
	mux.Handle("/api/projects/{owner}/{repo}/aliveness", limited(h.Aliveness))
	mux.Handle("/api/projects/{owner}/{repo}/contribution-outcomes", limited(h.ContributionOutcomes))

	var handler http.Handler = mux
	handler = m.Middleware(handler)
	handler = WithLogging(logger, handler)
	handler = WithRecovery(logger, handler)
	handler = WithRequestID(handler)
	return handler
}
