// services/analysis_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/analysis"
	"github.com/answer-engine/aea-workflows/internal/models"
)

// analysisService drives the pipeline for one execution: mark it analyzing,
// run the passes over the raw response, persist the record, mark the
// execution completed or failed. The record itself is append-only; reruns of
// the same execution are rejected by the store.
type analysisService struct {
	repos *RepositoryManager
}

func NewAnalysisService(repos *RepositoryManager) AnalysisService {
	return &analysisService{repos: repos}
}

func (s *analysisService) AnalyzeResponse(ctx context.Context, execution *models.QueryExecution, brand *models.Brand, raw *models.RawResponse) (*models.AnalysisRecord, error) {
	if err := s.repos.ExecutionRepo.UpdateStatus(ctx, execution.ID, models.ExecutionAnalyzing); err != nil {
		return nil, fmt.Errorf("failed to mark execution analyzing: %w", err)
	}

	var result analysis.Result
	finalStatus := models.ExecutionCompleted

	if raw.Status != models.ResponseCompleted || raw.ResponseText == "" {
		// Failed and timed-out calls still get a record so daily totals
		// count them; every analysis figure stays zeroed.
		fmt.Printf("[AnalyzeResponse] Execution %s on %s did not complete (status=%s), writing placeholder record\n",
			execution.ID, raw.Platform, raw.Status)
		result = analysis.FailedResult()
		finalStatus = models.ExecutionFailed
	} else {
		result = analysis.Analyze(raw.ResponseText, raw.CitationHints, analysis.BrandProfile{
			Name:        brand.Name,
			Domain:      brand.Domain,
			Aliases:     brand.Keywords,
			Competitors: brand.Competitors,
		})
	}

	record := &models.AnalysisRecord{
		ID:                   uuid.New(),
		ExecutionID:          execution.ID,
		BrandMentioned:       result.BrandMentioned,
		MentionCount:         result.MentionCount,
		Position:             result.Position,
		TotalRecommendations: result.TotalRecommendations,
		SentimentLabel:       result.SentimentLabel,
		SentimentScore:       result.SentimentScore,
		MentionTypes:         result.MentionTypes,
		CompetitorMentions:   result.CompetitorMentions,
		Citations:            result.Citations,
		ComparisonStats:      result.ComparisonStats,
		AspectSentiments:     result.AspectSentiments,
		DominantAspect:       result.DominantAspect,
		AnalyzedAt:           time.Now().UTC(),
	}

	if err := s.repos.AnalysisRepo.Create(ctx, record); err != nil {
		if statusErr := s.repos.ExecutionRepo.UpdateStatus(ctx, execution.ID, models.ExecutionFailed); statusErr != nil {
			fmt.Printf("[AnalyzeResponse] Failed to mark execution %s failed: %v\n", execution.ID, statusErr)
		}
		return nil, fmt.Errorf("failed to persist analysis record: %w", err)
	}

	if err := s.repos.ExecutionRepo.UpdateStatus(ctx, execution.ID, finalStatus); err != nil {
		return nil, fmt.Errorf("failed to mark execution %s: %w", finalStatus, err)
	}

	fmt.Printf("[AnalyzeResponse] Execution %s analyzed: mentioned=%t mentions=%d sentiment=%s citations=%d\n",
		execution.ID, record.BrandMentioned, record.MentionCount, record.SentimentLabel, len(record.Citations))

	return record, nil
}
