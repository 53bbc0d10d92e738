package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/naka-gawa/repo-insights/internal/metrics"
	"github.com/naka-gawa/repo-insights/internal/transport/rest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves repository metrics over HTTP",
	Long: `Starts an HTTP server exposing, per repository:

  GET /api/projects/{owner}/{repo}/insights
  GET /api/projects/{owner}/{repo}/aliveness
  GET /api/projects/{owner}/{repo}/contribution-outcomes

plus repository search on GET /api/projects and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		level := slog.LevelInfo
		logger := newLogger(os.Stderr, cfg.Verbose, &level)
		if cfg.GitHubToken == "" {
			return errMissingToken
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		aggregator, closeStores, err := newAggregator(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer func() {
			if err := closeStores(); err != nil {
				logger.Warn("failed to close cache backend", "error", err)
			}
		}()

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(registry)
		limiter := rest.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.TrustProxy)
		router := rest.NewRouter(rest.NewHandler(aggregator, m, logger), m, limiter, logger)

		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("listening", "addr", cfg.Server.Addr, "cache", cfg.Cache.Backend, "cache_ttl", cfg.Cache.TTL)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to serve: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Float64("rate-limit-rps", 5, "Requests per second allowed per client (0 disables limiting)")
	serveCmd.Flags().Int("rate-limit-burst", 10, "Burst size per client")
	serveCmd.Flags().Bool("trust-proxy", false, "Identify clients by X-Forwarded-For / X-Real-IP (only behind a reverse proxy)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding serve flags: %v\n", err)
		os.Exit(1)
	}
}
