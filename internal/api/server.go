// internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/services"
)

// Server is the read API backing the dashboard: overview, trends, competitor
// comparison, question drill-down, per-execution analysis, CSV export.
type Server struct {
	repos          *services.RepositoryManager
	metricsService services.MetricsService
	cfg            *config.Config
	log            *logrus.Logger
}

func NewServer(repos *services.RepositoryManager, metricsService services.MetricsService, cfg *config.Config) *Server {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	return &Server{
		repos:          repos,
		metricsService: metricsService,
		cfg:            cfg,
		log:            log,
	}
}

// Routes returns the chi router with all read endpoints mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api/brands/{brandID}", func(r chi.Router) {
		r.Get("/overview", s.handleOverview)
		r.Get("/trends", s.handleTrends)
		r.Get("/competitors", s.handleCompetitors)
		r.Get("/questions", s.handleQuestionDrilldowns)
		r.Get("/metrics/export", s.handleMetricsExport)
	})
	r.Get("/api/executions/{executionID}/analysis", s.handleExecutionAnalysis)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
