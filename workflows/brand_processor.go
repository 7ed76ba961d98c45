// workflows/brand_processor.go
package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/services"
)

type BrandProcessor struct {
	repos                 *services.RepositoryManager
	questionRunnerService services.QuestionRunnerService
	metricsService        services.MetricsService
	client                inngestgo.Client
	cfg                   *config.Config
}

func NewBrandProcessor(
	repos *services.RepositoryManager,
	questionRunnerService services.QuestionRunnerService,
	metricsService services.MetricsService,
	cfg *config.Config,
) *BrandProcessor {
	return &BrandProcessor{
		repos:                 repos,
		questionRunnerService: questionRunnerService,
		metricsService:        metricsService,
		cfg:                   cfg,
	}
}

func (p *BrandProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// AnalyzeBrand is the main pipeline: run the question matrix for one brand,
// then fold the day's analysis records into daily metrics.
func (p *BrandProcessor) AnalyzeBrand() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:      "analyze-brand",
			Name:    "Analyze Brand - Question Matrix + Daily Metrics",
			Retries: inngestgo.IntPtr(3),
		},
		inngestgo.EventTrigger("brand.analyze", nil),
		func(ctx context.Context, input inngestgo.Input[BrandAnalyzeEvent]) (any, error) {
			brandID, err := uuid.Parse(input.Event.Data.BrandID)
			if err != nil {
				return nil, fmt.Errorf("invalid brand ID %q: %w", input.Event.Data.BrandID, err)
			}
			fmt.Printf("[AnalyzeBrand] Starting analysis pipeline for brand: %s\n", brandID)

			// Step 1: load the brand
			brand, err := step.Run(ctx, "load-brand", func(ctx context.Context) (*models.Brand, error) {
				brand, err := p.repos.BrandRepo.GetByID(ctx, brandID)
				if err != nil {
					return nil, fmt.Errorf("failed to load brand: %w", err)
				}
				if !brand.IsActive {
					return nil, fmt.Errorf("brand %s is inactive", brandID)
				}
				fmt.Printf("[AnalyzeBrand] Loaded brand %s with %d competitors\n", brand.Name, len(brand.Competitors))
				return brand, nil
			})
			if err != nil {
				return nil, fmt.Errorf("step 1 failed: %w", err)
			}

			// Step 2: run the question x platform matrix
			summary, err := step.Run(ctx, "run-question-matrix", func(ctx context.Context) (*services.RunSummary, error) {
				return p.questionRunnerService.RunQuestionMatrix(ctx, brand)
			})
			if err != nil {
				return nil, fmt.Errorf("step 2 failed: %w", err)
			}

			// Step 3: recompute today's metrics from the full record set
			metrics, err := step.Run(ctx, "compute-daily-metrics", func(ctx context.Context) (*models.DailyMetrics, error) {
				return p.metricsService.ComputeDailyMetrics(ctx, brandID, time.Now().UTC())
			})
			if err != nil {
				return nil, fmt.Errorf("step 3 failed: %w", err)
			}

			fmt.Printf("[AnalyzeBrand] COMPLETED brand %s: %d executions, visibility %.1f\n",
				brand.Name, summary.ExecutionsCompleted+summary.ExecutionsFailed, metrics.VisibilityScore)

			return map[string]interface{}{
				"brand_id":         brandID.String(),
				"brand_name":       brand.Name,
				"status":           "completed",
				"run_summary":      summary,
				"visibility_score": metrics.VisibilityScore,
				"share_of_voice":   metrics.ShareOfVoice,
				"completed_at":     time.Now().UTC(),
			}, nil
		},
	)
	if err != nil {
		panic(fmt.Errorf("failed to create AnalyzeBrand function: %w", err))
	}
	return fn
}

// Event types
type BrandAnalyzeEvent struct {
	BrandID     string `json:"brand_id"`
	TriggeredBy string `json:"triggered_by"`
}
