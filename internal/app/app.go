// Package app wires configuration into the service graph shared by the
// server and the CLI.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/marketing_analytics/internal/attribution"
	"github.com/AngelCh415/marketing_analytics/internal/cleaner"
	"github.com/AngelCh415/marketing_analytics/internal/config"
	"github.com/AngelCh415/marketing_analytics/internal/httpx"
	"github.com/AngelCh415/marketing_analytics/internal/ingest"
	"github.com/AngelCh415/marketing_analytics/internal/metrics"
	"github.com/AngelCh415/marketing_analytics/internal/store"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	Config  config.Config
	Logger  *slog.Logger
	Store   *store.MemoryStore
	Metrics *metrics.Service
}

// New builds the application. A nil logger uses the one cfg describes.
func New(cfg config.Config, logger *slog.Logger) *Application {
	if logger == nil {
		logger = cfg.NewLogger()
	}
	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore(cfg.CacheEnabled)
	loader := ingest.NewLoader(cl, logger)
	cleaning := cleaner.New(logger, cleaner.Options{
		ZThreshold:    cfg.OutlierZ,
		ROASTolerance: cfg.ROASTolerance,
		Basis:         cleaner.OutlierBasis(cfg.OutlierBasis),
	})
	svc := metrics.NewService(st, loader, cleaning, logger, metrics.Options{
		DataPath:     cfg.DataPath,
		FallbackPath: cfg.FallbackPath,
		Window:       cfg.RollingWindow,
		Attribution:  attribution.Options{NormalizeTimeDecay: cfg.NormalizeTimeDecay},
	})
	return &Application{Config: cfg, Logger: logger, Store: st, Metrics: svc}
}

func (a *Application) Handler() http.Handler {
	return httpx.NewRouter(a.Logger, a.Metrics)
}

// Serve runs the HTTP API until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts down gracefully.
func (a *Application) Serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("starting server", slog.String("port", a.Config.Port), slog.String("data", a.Config.DataPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Warm the cache; a failure is reported by /readyz, not fatal.
		if _, err := a.Metrics.Snapshot(ctx); err != nil {
			a.Logger.Warn("initial data load failed", slog.String("err", err.Error()))
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Logger.Info("shutting down server")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
