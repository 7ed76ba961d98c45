// services/question_runner_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
)

type questionRunnerService struct {
	cfg             *config.Config
	repos           *RepositoryManager
	analysisService AnalysisService
	providers       map[models.Platform]AIProvider
}

func NewQuestionRunnerService(cfg *config.Config, repos *RepositoryManager, analysisService AnalysisService, providers []AIProvider) QuestionRunnerService {
	byPlatform := make(map[models.Platform]AIProvider, len(providers))
	for _, provider := range providers {
		byPlatform[provider.GetPlatform()] = provider
	}
	return &questionRunnerService{
		cfg:             cfg,
		repos:           repos,
		analysisService: analysisService,
		providers:       byPlatform,
	}
}

// RunQuestionMatrix runs every active question for the brand against every
// configured platform. Units are independent; one failing (question,
// platform) pair is recorded and the loop keeps moving.
func (s *questionRunnerService) RunQuestionMatrix(ctx context.Context, brand *models.Brand) (*RunSummary, error) {
	questions, err := s.repos.QuestionRepo.ListActiveByBrand(ctx, brand.ID, s.cfg.Analysis.MaxQuestionsPerRun)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	fmt.Printf("[RunQuestionMatrix] Brand %s: processing %d questions across %d platforms\n",
		brand.Name, len(questions), len(s.providers))

	summary := &RunSummary{
		BrandID:   brand.ID,
		BrandName: brand.Name,
	}

	for _, question := range questions {
		for _, platform := range models.AllPlatforms() {
			if _, ok := s.providers[platform]; !ok {
				continue
			}

			result, err := s.ProcessSingleQuestion(ctx, brand, question, platform)
			if err != nil {
				fmt.Printf("[RunQuestionMatrix] Error processing question %s on %s: %v\n",
					question.ID, platform, err)
				summary.ExecutionsFailed++
				summary.ProcessingErrors = append(summary.ProcessingErrors,
					fmt.Sprintf("question %s on %s: %v", question.ID, platform, err))
				continue
			}

			summary.TotalCost += result.Cost
			if result.Status == models.ExecutionCompleted {
				summary.ExecutionsCompleted++
			} else {
				summary.ExecutionsFailed++
			}
		}
		summary.QuestionsProcessed++
	}

	fmt.Printf("[RunQuestionMatrix] Brand %s done: %d completed, %d failed, cost $%.4f\n",
		brand.Name, summary.ExecutionsCompleted, summary.ExecutionsFailed, summary.TotalCost)

	return summary, nil
}

// ProcessSingleQuestion runs one (question, platform) unit end to end: the
// vendor call, the execution record, and the analysis pipeline.
func (s *questionRunnerService) ProcessSingleQuestion(ctx context.Context, brand *models.Brand, question *models.Question, platform models.Platform) (*ExecutionResult, error) {
	provider, ok := s.providers[platform]
	if !ok {
		return nil, fmt.Errorf("no provider configured for platform %s", platform)
	}

	callCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Analysis.QueryTimeoutSecs)*time.Second)
	defer cancel()

	raw, err := provider.SendQuery(callCtx, question.Text)
	if err != nil {
		return nil, fmt.Errorf("provider call failed: %w", err)
	}

	execution := &models.QueryExecution{
		ID:           uuid.New(),
		QuestionID:   question.ID,
		BrandID:      brand.ID,
		Platform:     platform,
		ResponseText: raw.ResponseText,
		Status:       models.ExecutionPending,
		LatencyMS:    raw.LatencyMS,
		InputTokens:  raw.InputTokens,
		OutputTokens: raw.OutputTokens,
		TotalCost:    raw.Cost,
		ExecutedAt:   time.Now().UTC(),
	}
	if err := s.repos.ExecutionRepo.Create(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to create query execution: %w", err)
	}

	record, err := s.analysisService.AnalyzeResponse(ctx, execution, brand, raw)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	result := &ExecutionResult{
		ExecutionID:    execution.ID,
		Platform:       platform,
		BrandMentioned: record.BrandMentioned,
		MentionCount:   record.MentionCount,
		Cost:           raw.Cost,
		ErrorMessage:   raw.Error,
	}
	result.Status = models.ExecutionCompleted
	if raw.Status != models.ResponseCompleted {
		result.Status = models.ExecutionFailed
	}

	return result, nil
}
