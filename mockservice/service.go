// Package mockservice is an in-memory implementation of the albums API, with the same record
// semantics as the hosted sandbox except that writes are kept. The check suite can run against
// it in place of the real service, and it has admin routes to restore or inspect the fixture.
package mockservice

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Service is the mock albums API. It is an http.Handler.
type Service struct {
	store   *AlbumStore
	logger  *zap.Logger
	metrics *Metrics
	router  chi.Router
}

// Options configures NewService.
type Options struct {
	// FixtureCount is the number of albums in the fixture. Zero means DefaultFixtureCount.
	FixtureCount int

	// Logger receives one line per request. Nil means zap.NewNop().
	Logger *zap.Logger
}

// NewService creates a Service holding a fresh fixture.
func NewService(opts Options) *Service {
	if opts.FixtureCount == 0 {
		opts.FixtureCount = DefaultFixtureCount
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Service{
		store:   NewAlbumStore(opts.FixtureCount),
		logger:  opts.Logger,
		metrics: newMetrics(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(s.observe)
	r.Use(chimw.Recoverer)
	s.routes(r)
	s.router = r
	return s
}

func (s *Service) routes(r chi.Router) {
	r.Route("/albums", func(r chi.Router) {
		r.Get("/", s.listAlbums)
		r.Post("/", s.createAlbum)
		r.Get("/{id}", s.getAlbum)
		r.Put("/{id}", s.replaceAlbum)
		r.Patch("/{id}", s.patchAlbum)
		r.Delete("/{id}", s.deleteAlbum)
	})

	r.Post("/admin/reset", s.handleReset)
	r.Get("/admin/state", s.handleGetState)
	r.Post("/admin/state", s.handleLoadState)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Store returns the underlying album store.
func (s *Service) Store() *AlbumStore {
	return s.store
}

// Metrics returns the service's metrics.
func (s *Service) Metrics() *Metrics {
	return s.metrics
}

// Reset restores the fixture.
func (s *Service) Reset() {
	s.store.Reset()
	s.logger.Debug("fixture restored", zap.Int("count", s.store.Count()))
}
