// Package visitordash serves a visitor-analytics dashboard for hotel bookings.
// A date-range picker drives filtering of an in-memory booking dataset, and
// the result feeds a daily time series, a per-country bar chart and
// per-guest-type sparklines.
//
// The App wires together the dataset, the summary cache, handlers, middleware
// and the optional reload scheduler.
package visitordash

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/visitordash/dashboard"
	"github.com/eringen/visitordash/dataset"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// App is the central visitordash application.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Logger   zerolog.Logger
	Dataset  *dataset.Dataset
	Metrics  *dashboard.Metrics
	Handler  *dashboard.Handler
	Reloader *ReloadScheduler

	seed         []dataset.BookingRecord
	customRoutes []func(*App)
	staticDir    string
	ready        bool
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Logger: NewLogger(cfg.Env, os.Stderr),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup loads the dataset and registers middleware and routes. Start calls it;
// tests call it directly and drive a.Echo with ServeHTTP.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(a.seed == nil); err != nil {
		return err
	}
	if a.Config.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("visitordash: generate session secret: %w", err)
		}
		a.Config.SessionSecret = secret
		a.Logger.Warn().Msg("session_secret is not set; range selections will not survive a restart")
	}
	iv, err := a.Config.DefaultInterval()
	if err != nil {
		return err
	}

	a.Metrics = dashboard.NewMetrics()
	if a.seed != nil {
		a.Dataset = dataset.FromRecords(a.seed)
	} else {
		a.Dataset = dataset.New(a.Config.Dataset...)
		snap, err := a.Dataset.Reload(ctx)
		if err != nil {
			return fmt.Errorf("visitordash: load dataset: %w", err)
		}
		a.Logger.Info().
			Strs("paths", a.Config.Dataset).
			Int("records", len(snap.Records)).
			Msg("dataset loaded")
	}
	a.Metrics.SetDatasetRecords(len(a.Dataset.Snapshot().Records))

	a.Handler = dashboard.NewHandler(a.Dataset, a.Metrics, a.Logger, dashboard.Options{
		SiteName:        a.Config.SiteName,
		ApexChartsURL:   a.Config.ApexChartsURL,
		AssetVersion:    assetVersion,
		DefaultInterval: iv,
		MaxRangeDays:    a.Config.MaxRangeDays,
		CacheTTL:        a.Config.CacheTTL,
		RateLimit:       a.Config.RateLimit,
		RateWindow:      a.Config.RateWindow,
	})

	if a.Config.ReloadInterval > 0 && len(a.Dataset.Paths()) > 0 {
		a.Reloader, err = NewReloadScheduler(a.Dataset, a.Config.ReloadInterval, a.Logger, a.onReload)
		if err != nil {
			return fmt.Errorf("visitordash: init reload scheduler: %w", err)
		}
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// onReload records a reload attempt and drops summaries of the old snapshot.
func (a *App) onReload(snap *dataset.Snapshot, err error) {
	a.Metrics.Reload(err)
	if err != nil {
		return
	}
	a.Metrics.SetDatasetRecords(len(snap.Records))
	a.Handler.Cache().Invalidate()
}

// Start sets the App up and serves HTTP until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	if a.Reloader != nil {
		a.Reloader.Start()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info().Str("addr", a.Config.Addr).Msg("starting server")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("visitordash: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedAssets())))))
	if a.staticDir != "" {
		e.Static("/static", a.staticDir)
	}

	a.Handler.RegisterRoutes(e)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var err error
	if a.Reloader != nil {
		err = a.Reloader.Stop()
	}
	if a.Handler != nil {
		a.Handler.Close()
	}
	return err
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
