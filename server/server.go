// Package server exposes the catalog view pipeline as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"

	"storefront/catalog"
	"storefront/domain"
)

// DefaultRefreshSchedule is how often the catalog is re-read.
const DefaultRefreshSchedule = "@every 5m"

// MaxPerPage caps the perPage query parameter.
const MaxPerPage = 100

// Options configures a Server.
type Options struct {
	PerPage int
	// RefreshSchedule is a robfig/cron schedule; empty disables periodic refresh.
	RefreshSchedule string
}

// snapshot is an immutable copy of the catalog the handlers read from.
type snapshot struct {
	products []domain.Product
	facets   catalog.Facets
	loadedAt time.Time
}

// Server serves catalog views over HTTP from a periodically refreshed
// snapshot of a catalog source. Requests never lock: a refresh builds a new
// snapshot and swaps it in.
type Server struct {
	src  domain.CatalogStore
	opts Options
	snap atomic.Pointer[snapshot]
	e    *echo.Echo
}

// New builds a Server reading from src. The catalog is not fetched until
// Refresh or Run is called.
func New(src domain.CatalogStore, opts Options) *Server {
	if opts.PerPage <= 0 {
		opts.PerPage = catalog.DefaultPerPage
	}
	s := &Server{src: src, opts: opts}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", v.RequestID,
				"duration_ms", v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				slog.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
			})
			return next(c)
		}
	})

	s.e = e
	s.routes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.e }

// Refresh fetches the catalog from the source and swaps in a new snapshot.
// On failure the previous snapshot stays in place.
func (s *Server) Refresh(ctx context.Context) error {
	start := time.Now()
	products, err := s.src.Catalog(ctx)
	if err != nil {
		slog.Error("catalog refresh failed", "error", err)
		return err
	}
	s.snap.Store(&snapshot{
		products: products,
		facets:   catalog.BuildFacets(products),
		loadedAt: time.Now().UTC(),
	})
	slog.Info("catalog refreshed", "products", len(products), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// current returns the live snapshot, loading one on first use.
func (s *Server) current(ctx context.Context) (*snapshot, error) {
	if sn := s.snap.Load(); sn != nil {
		return sn, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.snap.Load(), nil
}

// StartRefresh schedules periodic catalog refreshes. The returned cron
// must be stopped by the caller; it is nil when no schedule is configured.
func (s *Server) StartRefresh() (*cron.Cron, error) {
	if s.opts.RefreshSchedule == "" {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(s.opts.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_ = s.Refresh(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("refresh schedule %q: %w", s.opts.RefreshSchedule, err)
	}
	c.Start()
	return c, nil
}

// Run loads the catalog, starts the refresh schedule and serves on addr
// until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	c, err := s.StartRefresh()
	if err != nil {
		return err
	}
	if c != nil {
		defer func() { <-c.Stop().Done() }()
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "refresh", s.opts.RefreshSchedule)
		errCh <- s.e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
