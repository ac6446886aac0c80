package blogservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/api"
	"github.com/inkwell-hq/inkwell/internal/cache"
	"github.com/inkwell-hq/inkwell/internal/config"
	"github.com/inkwell-hq/inkwell/internal/content"
	"github.com/inkwell-hq/inkwell/internal/factory"
	"github.com/inkwell-hq/inkwell/internal/health"
	"github.com/inkwell-hq/inkwell/internal/logger"
	"github.com/inkwell-hq/inkwell/internal/revalidate"
	"github.com/inkwell-hq/inkwell/internal/services"
	"github.com/inkwell-hq/inkwell/internal/store"
)

// Run starts the blog service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("inkwell")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	// Debug logging stays on outside production.
	if cfg.IsProduction() {
		log = log.Level(zerolog.InfoLevel)
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("cache_driver", cfg.CacheDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("webhook_enabled", cfg.WebhookSecret != "").
		Bool("route_pings_enabled", cfg.SiteBaseURL != "").
		Msg("Blog service starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := newServerContext()
	defer stop()

	st, tags, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	// The route pinger is optional; without a site base URL tag
	// invalidation still runs and route pings are skipped.
	var pinger revalidate.RoutePinger
	if p := revalidate.NewHTTPPinger(cfg.SiteBaseURL, cfg.RevalidateToken); p != nil {
		pinger = p
	}
	rev := revalidate.New(tags, pinger, log)

	svc := services.NewContent(st, rev, log)
	fetcher := content.NewCached(content.NewFetcher(st), tags, log)

	svcHealth := startHealthCheckers(ctx, cfg, log, st, tags)

	router := api.NewRouter(cfg, fetcher, svc, rev, svcHealth.IsHealthy, log)

	// Block startup until dependencies report healthy; fail fast otherwise.
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the store and tag cache, failing fast when a
// configured backend is unreachable or misconfigured.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, cache.TagStore, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store backend unavailable")
		return nil, nil, err
	}

	tags, err := factory.NewTagStore(cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Cache backend unavailable")
		return nil, nil, err
	}
	return st, tags, nil
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, tags cache.TagStore) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	cacheChecker := cache.NewCacheHealthChecker(tags, log, probeTimeout)
	go cacheChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker, cacheChecker)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	// Checkers start unhealthy and need time for their first probe cycle.
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
