// Package api exposes result listing and predictions over HTTP.
package api

import (
	"context"
	"net/http"

	"chemgps/app"
	"chemgps/domain/core"
	"chemgps/internal"
	"chemgps/internal/config"
	"chemgps/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"
)

// RequestIDHeader carries the request id on every response.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// Server handles prediction requests. The engine serves one session at a
// time, so predictions are serialised.
type Server struct {
	router     *chi.Mux
	service    *app.PredictionService
	metrics    *metrics.Recorder
	base       config.Options
	projectDir string
	engine     *semaphore.Weighted
	log        *internal.Logger
}

// NewServer builds the router. base supplies the session options of every
// prediction; request parameters override format, verbosity and results.
// Project names are resolved inside projectDir.
func NewServer(service *app.PredictionService, recorder *metrics.Recorder, base config.Options, projectDir string, log *internal.Logger) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		service:    service,
		metrics:    recorder,
		base:       base,
		projectDir: projectDir,
		engine:     semaphore.NewWeighted(1),
		log:        log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/results", s.handleResults)
		r.Post("/predict", s.handlePredict)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := core.NewRequestID()
		w.Header().Set(RequestIDHeader, id.String())
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) core.RequestID {
	id, _ := ctx.Value(requestIDKey{}).(core.RequestID)
	return id
}
