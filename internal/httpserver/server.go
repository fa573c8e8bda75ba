package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/PortNumber53/agency-site/backend/internal/config"
	"github.com/PortNumber53/agency-site/backend/internal/estimator"
	"github.com/PortNumber53/agency-site/backend/internal/handlers"
	appmw "github.com/PortNumber53/agency-site/backend/internal/middleware"
	"github.com/PortNumber53/agency-site/backend/internal/worker"
)

// Deps are the services the HTTP API is built on. Nil stores leave their
// routes unregistered.
type Deps struct {
	Logger    *zap.Logger
	Catalog   *estimator.Catalog
	Sessions  handlers.SessionStore
	Submitter estimator.Submitter
	Contacts  handlers.ContactStore
	Quotes    handlers.QuoteLister
	Jobs      handlers.JobStore
	Worker    *worker.Worker
}

// Server wraps an http.Server with convenience helpers for startup/shutdown.
type Server struct {
	httpServer *http.Server
	worker     *worker.Worker
	limiter    *appmw.RateLimiter
	logger     *zap.Logger
}

// New constructs an HTTP server using the provided configuration and services.
func New(cfg config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appmw.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	limiter := appmw.NewRateLimiter(cfg.ContactRateLimit, cfg.ContactRateBurst)

	router.Get("/healthz", handlers.Health)
	router.Get("/api/health", handlers.Health)

	if deps.Contacts != nil {
		router.With(limiter.Middleware()).Post("/api/contact", handlers.CreateContact(deps.Contacts, logger))
	}

	if deps.Catalog != nil && deps.Sessions != nil && deps.Submitter != nil {
		estimatorHandler := handlers.NewEstimatorHandler(deps.Catalog, deps.Sessions, deps.Submitter, logger)
		estimatorHandler.RegisterRoutes(router, limiter.Middleware())
	}

	router.Group(func(r chi.Router) {
		r.Use(appmw.AdminToken(cfg.AdminToken))
		if deps.Contacts != nil {
			r.Get("/api/contacts", handlers.ListContacts(deps.Contacts, logger))
		}
		if deps.Quotes != nil {
			r.Get("/api/quotes", handlers.ListQuotes(deps.Quotes, logger))
		}
		if deps.Jobs != nil {
			var runner handlers.JobRunner
			if deps.Worker != nil {
				runner = deps.Worker
			}
			handlers.NewJobHandler(deps.Jobs, runner, logger).RegisterRoutes(r)
		}
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     zap.NewStdLog(logger.Named("http")),
	}

	return &Server{httpServer: srv, worker: deps.Worker, limiter: limiter, logger: logger}
}

// Start begins serving HTTP traffic and starts the worker.
func (s *Server) Start() error {
	if s.worker != nil {
		s.logger.Info("starting job worker", zap.String("worker_id", s.worker.ID()))
		s.worker.Start(context.Background())
	}
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server and worker.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	if s.worker != nil {
		s.logger.Info("shutting down job worker")
		if err := s.worker.Stop(ctx); err != nil {
			s.logger.Error("worker shutdown error", zap.Error(err))
		}
	}
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
