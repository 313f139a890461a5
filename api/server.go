// Package api is the thin HTTP layer over the pricing engine. It is only
// responsible for input ingestion, engine orchestration and output
// serialization; it never performs pricing logic itself.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamrate/core/engine"
)

// Server is the API server
type Server struct {
	handler *Handler
	router  chi.Router
	version string
	log     *zap.Logger
}

// NewServer creates a new API server. src may be nil, in which case only the
// snapshot-in-body endpoint is available.
func NewServer(version string, src Source, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		handler: NewHandler(engine.New(log), src),
		router:  chi.NewRouter(),
		version: version,
		log:     log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.requestLogger)

	s.router.Post("/v1/price", s.handler.handlePrice)
	s.router.Get("/v1/pricing", s.handler.handlePricing)
	s.router.Get("/v1/breakdown", s.handler.handleBreakdown)
	s.router.Get("/v1/validation", s.handler.handleValidation)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request handled",
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}
