package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/naraya/pool-http-service/common/config"
	"github.com/naraya/pool-http-service/common/work"
	"github.com/naraya/pool-http-service/handler"
)

type AppHttpServer struct {
	router   *chi.Mux
	cfg      config.Config
	server   *http.Server
	pool     *work.Pool
	manager  *work.JobManager
	registry *prometheus.Registry
}

func NewAppHttpServer(cfg config.Config) (*AppHttpServer, error) {
	r := chi.NewRouter()

	// Basic CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	server := &AppHttpServer{
		router: r,
		cfg:    cfg,
	}
	return server, nil
}

// SetPool sets the worker pool dependency
func (s *AppHttpServer) SetPool(pool *work.Pool) {
	s.pool = pool
}

// SetJobManager sets the job state manager dependency
func (s *AppHttpServer) SetJobManager(manager *work.JobManager) {
	s.manager = manager
}

// SetMetricsRegistry sets the Prometheus registry served on /metrics
func (s *AppHttpServer) SetMetricsRegistry(registry *prometheus.Registry) {
	s.registry = registry
}

func (s *AppHttpServer) setupRoute() {
	r := s.router

	if s.pool == nil {
		log.Warn().Msg("Pool dependency not set")
	}

	r.Get("/health", handler.NewHealthHandler(s.pool).Router().ServeHTTP)

	if s.registry != nil {
		r.Get("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP)
	}

	r.Route("/v1", func(r chi.Router) {
		jobHandler := handler.NewJobHandler(s.pool, s.manager)
		poolHandler := handler.NewPoolHandler(s.pool)

		r.Mount("/jobs", jobHandler.Router())
		r.Mount("/pool", poolHandler.Router())
	})
}

func (s *AppHttpServer) start() error {
	r := s.router
	cfg := s.cfg
	log.Info().Msg("Starting up server...")

	s.server = &http.Server{
		Addr:         cfg.Listen.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// This starts the server in a goroutine from main
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// stop gracefully shuts down the server
func (s *AppHttpServer) stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
