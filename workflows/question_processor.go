// workflows/question_processor.go
package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/services"
)

const defaultQuestionsPerCategory = 3

type QuestionProcessor struct {
	repos            *services.RepositoryManager
	generatorService services.QuestionGeneratorService
	client           inngestgo.Client
}

func NewQuestionProcessor(repos *services.RepositoryManager, generatorService services.QuestionGeneratorService) *QuestionProcessor {
	return &QuestionProcessor{
		repos:            repos,
		generatorService: generatorService,
	}
}

func (p *QuestionProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// GenerateQuestions builds the canned question set for a newly onboarded
// brand. One LLM call, one batch insert.
func (p *QuestionProcessor) GenerateQuestions() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:      "generate-questions",
			Name:    "Generate Brand Question Set",
			Retries: inngestgo.IntPtr(2),
		},
		inngestgo.EventTrigger("brand.generate_questions", nil),
		func(ctx context.Context, input inngestgo.Input[QuestionGenerateEvent]) (any, error) {
			brandID, err := uuid.Parse(input.Event.Data.BrandID)
			if err != nil {
				return nil, fmt.Errorf("invalid brand ID %q: %w", input.Event.Data.BrandID, err)
			}

			perCategory := input.Event.Data.PerCategory
			if perCategory <= 0 {
				perCategory = defaultQuestionsPerCategory
			}

			brand, err := step.Run(ctx, "load-brand", func(ctx context.Context) (*models.Brand, error) {
				return p.repos.BrandRepo.GetByID(ctx, brandID)
			})
			if err != nil {
				return nil, fmt.Errorf("failed to load brand: %w", err)
			}

			questions, err := step.Run(ctx, "generate-and-store", func(ctx context.Context) ([]*models.Question, error) {
				return p.generatorService.GenerateQuestions(ctx, brand, perCategory)
			})
			if err != nil {
				return nil, fmt.Errorf("question generation failed: %w", err)
			}

			return map[string]interface{}{
				"brand_id":            brandID.String(),
				"questions_generated": len(questions),
			}, nil
		},
	)
	if err != nil {
		panic(fmt.Errorf("failed to create GenerateQuestions function: %w", err))
	}
	return fn
}

// Event types
type QuestionGenerateEvent struct {
	BrandID     string `json:"brand_id"`
	PerCategory int    `json:"per_category"`
}
