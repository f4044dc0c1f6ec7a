package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gotyche/adapters/excel"
	"gotyche/domain/encoding"
	"gotyche/internal"
	"gotyche/internal/aggregate"
	"gotyche/internal/generators"
	"gotyche/internal/nist"
)

// Config holds the defaults applied to every request
type Config struct {
	Port           string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	Workers        int
	Params         encoding.Params
	Battery        nist.Config
	Thresholds     aggregate.Config
	Generators     generators.Config
	Reader         excel.ReaderConfig
}

// Server exposes the battery over HTTP
type Server struct {
	router *chi.Mux
	config Config
	logger *internal.Logger
}

// NewServer creates the router and registers every route
func NewServer(config Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 32 << 20
	}
	s := &Server{
		router: chi.NewRouter(),
		config: config,
		logger: logger.With("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/selftest", s.handleSelfTest)
		r.Get("/defaults", s.handleDefaults)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/sweep", s.handleSweep)
	})
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting randomness API on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
