package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rpupo63/blog-post-api/config"
	"github.com/rpupo63/blog-post-api/database"
	"github.com/rpupo63/blog-post-api/errs"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg config.ServerConfig, database database.Database) (Server, error) {
	if cfg.Port == "" {
		return Server{}, errors.New("server port is required")
	}
	address := fmt.Sprintf("0.0.0.0:%s", cfg.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := newRouter(database,
		withAcceptedOrigins(cfg.AcceptedOrigins),
		withStartupTime(startupTime),
		withRegistry(registry),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: cfg.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  cfg.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	acceptedOrigins []string
	startupTime     time.Time
	registry        *prometheus.Registry
	now             func() time.Time
}

func withAcceptedOrigins(origins []string) func(*router) {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withRegistry(registry *prometheus.Registry) func(*router) {
	return func(r *router) {
		r.registry = registry
	}
}

func withClock(now func() time.Time) func(*router) {
	return func(r *router) {
		r.now = now
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	router := router{
		acceptedOrigins: []string{"*"},
		startupTime:     time.Now(),
		now:             func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&router)
	}
	if router.registry == nil {
		router.registry = prometheus.NewRegistry()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(RequestID)
	chiRouter.Use(HTTPLoggingMiddleware)
	chiRouter.Use(newHTTPMetrics(router.registry).middleware)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(corsMiddleware(router.acceptedOrigins))

	notFoundResponder := NewResponder(log.Logger)
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFoundResponder.WriteError(w, errs.NewNotFoundError("route "+r.URL.Path))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		notFoundResponder.WriteError(w, errs.NewApiErr(http.StatusMethodNotAllowed, "method "+r.Method+" not allowed"))
	})

	handlers := initializeHandlers(database, router.startupTime, router.now)
	setupRoutes(chiRouter, handlers, router.registry)

	return chiRouter
}

// Start serves until the server is shut down. A graceful shutdown is not an error.
func (s Server) Start() error {
	log.Info().Msgf("Server started on: %s", s.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
