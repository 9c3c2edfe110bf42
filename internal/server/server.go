// Package server serves the fuel price map page and the dataset JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/rubiojr/fuelmap/internal/config"
	"github.com/rubiojr/fuelmap/internal/forecourt"
	"github.com/rubiojr/fuelmap/internal/metrics"
	"github.com/rubiojr/fuelmap/internal/server/templates"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg   *config.Config
	store *forecourt.Store
	log   *httplog.Logger
}

// New creates a Server backed by store. Expired datasets update the active
// datasets gauge.
func New(cfg *config.Config, store *forecourt.Store, logger *httplog.Logger) *Server {
	s := &Server{cfg: cfg, store: store, log: logger}
	store.OnEvicted(func(id string) {
		logger.Debug("Dataset expired", "id", id)
		metrics.DatasetsActive.Set(float64(store.Len()))
	})
	return s
}

// Router returns the HTTP handler with every route and middleware mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(httprate.LimitByIP(s.cfg.RateLimit.PerMinute, time.Minute))

	r.Get("/", s.handleHome)
	r.Handle("/static/*", staticHandler())
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/datasets", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Get("/{id}", s.handleDataset)
		r.Get("/{id}/nearby", s.handleNearby)
	})

	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting server", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error running server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}

func (s *Server) mapSettings() templates.MapSettings {
	m := s.cfg.Map
	return templates.MapSettings{
		TileURL:     m.TileURL,
		Attribution: m.Attribution,
		CenterLat:   m.CenterLat,
		CenterLng:   m.CenterLng,
		Zoom:        m.Zoom,
		Fuels:       s.store.PreferredFuels(),
	}
}
