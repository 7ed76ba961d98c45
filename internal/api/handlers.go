// internal/api/handlers.go
package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/store"
	"github.com/answer-engine/aea-workflows/services"
)

func (s *Server) brandIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "brandID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid brand id")
		return uuid.Nil, false
	}
	return id, true
}

// windowParams reads an optional ?days=N trailing window, defaulting to the
// configured trend window, and returns [from, to).
func (s *Server) windowParams(r *http.Request) (time.Time, time.Time) {
	days := s.cfg.Analysis.TrendDaysDefault
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	to := time.Now().UTC()
	return to.AddDate(0, 0, -days), to
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	brandID, ok := s.brandIDParam(w, r)
	if !ok {
		return
	}

	overview, err := s.metricsService.GetOverview(r.Context(), brandID)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "brand not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("overview query failed")
		s.respondError(w, http.StatusInternalServerError, "failed to load overview")
		return
	}
	s.respondJSON(w, http.StatusOK, overview)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	brandID, ok := s.brandIDParam(w, r)
	if !ok {
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = services.MetricVisibility
	}
	days := s.cfg.Analysis.TrendDaysDefault
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	series, err := s.metricsService.GetTrends(r.Context(), brandID, metric, days)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, series)
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	brandID, ok := s.brandIDParam(w, r)
	if !ok {
		return
	}

	from, to := s.windowParams(r)
	result, err := s.metricsService.GetCompetitorAnalysis(r.Context(), brandID, from, to)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "brand not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("competitor query failed")
		s.respondError(w, http.StatusInternalServerError, "failed to load competitor analysis")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuestionDrilldowns(w http.ResponseWriter, r *http.Request) {
	brandID, ok := s.brandIDParam(w, r)
	if !ok {
		return
	}

	from, to := s.windowParams(r)
	drilldowns, err := s.metricsService.GetQuestionDrilldowns(r.Context(), brandID, from, to)
	if err != nil {
		s.log.WithError(err).Error("drilldown query failed")
		s.respondError(w, http.StatusInternalServerError, "failed to load question details")
		return
	}
	s.respondJSON(w, http.StatusOK, drilldowns)
}

func (s *Server) handleExecutionAnalysis(w http.ResponseWriter, r *http.Request) {
	executionID, err := uuid.Parse(chi.URLParam(r, "executionID"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid execution id")
		return
	}

	record, err := s.repos.AnalysisRepo.GetByExecutionID(r.Context(), executionID)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		s.log.WithError(err).Error("analysis query failed")
		s.respondError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}
	s.respondJSON(w, http.StatusOK, record)
}

// handleMetricsExport streams the brand's daily metrics rows as CSV.
func (s *Server) handleMetricsExport(w http.ResponseWriter, r *http.Request) {
	brandID, ok := s.brandIDParam(w, r)
	if !ok {
		return
	}

	from, to := s.windowParams(r)
	rows, err := s.repos.MetricsRepo.ListRange(r.Context(), brandID, from, to)
	if err != nil {
		s.log.WithError(err).Error("metrics export query failed")
		s.respondError(w, http.StatusInternalServerError, "failed to load metrics")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="metrics-%s.csv"`, brandID))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"date", "visibility_score", "sentiment_avg", "mention_count",
		"share_of_voice", "citation_quality", "total_queries", "successful_queries"}
	if err := writer.Write(header); err != nil {
		s.log.WithError(err).Error("csv write failed")
		return
	}

	for _, row := range rows {
		quality := ""
		if row.CitationQuality != nil {
			quality = strconv.FormatFloat(*row.CitationQuality, 'f', 4, 64)
		}
		record := []string{
			row.Date.Format("2006-01-02"),
			strconv.FormatFloat(row.VisibilityScore, 'f', 2, 64),
			strconv.FormatFloat(row.SentimentAvg, 'f', 4, 64),
			strconv.Itoa(row.MentionCount),
			strconv.FormatFloat(row.ShareOfVoice, 'f', 2, 64),
			quality,
			strconv.Itoa(row.TotalQueries),
			strconv.Itoa(row.SuccessfulQueries),
		}
		if err := writer.Write(record); err != nil {
			s.log.WithError(err).Error("csv write failed")
			return
		}
	}
}
