package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skyward/launchspot/internal/api"
	"github.com/skyward/launchspot/internal/auth"
	"github.com/skyward/launchspot/internal/catalog"
	"github.com/skyward/launchspot/internal/config"
	"github.com/skyward/launchspot/internal/geo"
	"github.com/skyward/launchspot/internal/metrics"
	"github.com/skyward/launchspot/internal/solar"
	"github.com/skyward/launchspot/internal/telemetry"
	"github.com/skyward/launchspot/internal/viscache"
	"github.com/skyward/launchspot/internal/visibility"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Solar chain: primary and secondary remote endpoints, then the local
	// approximator, which cannot fail.
	sun := solar.NewChain(
		solar.NewClient(cfg.SolarPrimaryURL, geo.Observer.Lat, geo.Observer.Lon, logger),
		solar.NewClient(secondaryURL(cfg), geo.Observer.Lat, geo.Observer.Lon, logger),
		solar.NewApproximator(geo.Observer.Lat, geo.Observer.Lon),
	)

	var supplier telemetry.Supplier
	if cfg.TelemetryURL != "" {
		supplier = telemetry.NewClient(cfg.TelemetryURL, logger)
	}

	cache := viscache.New(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	resolver := visibility.NewResolver(visibility.Config{
		Solar:    sun,
		Supplier: supplier,
		Cache:    cache,
		Logger:   logger,
	})

	store := catalog.NewStore()
	snapshots := catalog.NewSnapshots(cfg.SnapshotDir, cfg.SnapshotMaxFiles)

	// Serve the last snapshot until the first fetch lands.
	if ds, err := snapshots.LoadLatest(); err != nil {
		logger.Info("no catalog snapshot found, starting empty", "error", err)
	} else {
		store.Set(ds)
		metrics.SetCatalogLaunches(len(ds.Launches))
		logger.Info("loaded catalog snapshot",
			"launches", len(ds.Launches),
			"fetched_at", ds.FetchedAt.Format(time.RFC3339))
	}

	authCfg := auth.Config{Enabled: cfg.AuthEnabled, Token: cfg.AuthToken}
	srv := api.NewServer(cfg.HTTPAddr, logger, authCfg, cfg.TrustProxy, store, resolver, cache)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := catalog.NewFetcher(cfg.CatalogURL, cfg.CatalogRequestsPerHour)
	go refreshLoop(ctx, logger, fetcher, store, snapshots, resolver, cfg.RefreshSeconds)

	// Background goroutine to update dataset age and prune expired cache
	// entries.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if age := store.AgeSeconds(); age >= 0 {
					metrics.SetCatalogAge(age)
				}
				cache.Prune()
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "auth_enabled", cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// refreshLoop fetches the launch catalog on a fixed cadence, snapshots it,
// and warms the visibility cache for the fresh dataset.
func refreshLoop(ctx context.Context, logger *slog.Logger, fetcher *catalog.Fetcher,
	store *catalog.Store, snapshots *catalog.Snapshots, resolver *visibility.Resolver, intervalSec int) {

	refresh := func() {
		ds, err := fetcher.Fetch(ctx)
		if err != nil {
			logger.Warn("catalog fetch failed", "error", err)
			metrics.IncSupplierFailure("catalog")
			return
		}

		store.Set(ds)
		metrics.SetCatalogLaunches(len(ds.Launches))
		if err := snapshots.Write(ds); err != nil {
			logger.Warn("catalog snapshot write failed", "error", err)
		}
		logger.Info("catalog refreshed", "launches", len(ds.Launches))

		resolver.ResolveAll(ctx, ds.Launches)
	}

	refresh()

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}

func secondaryURL(cfg config.Config) string {
	if cfg.SolarSecondaryURL != "" {
		return cfg.SolarSecondaryURL
	}
	return solar.DefaultSecondaryURL
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
