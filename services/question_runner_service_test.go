// services/question_runner_service_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/services"
)

// stubProvider returns one canned response per call.
type stubProvider struct {
	platform models.Platform
	response *models.RawResponse
	calls    int
}

func (s *stubProvider) GetPlatform() models.Platform { return s.platform }

func (s *stubProvider) SendQuery(_ context.Context, questionText string) (*models.RawResponse, error) {
	s.calls++
	resp := *s.response
	resp.QuestionText = questionText
	return &resp, nil
}

func runnerConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			MaxQuestionsPerRun: 10,
			QueryTimeoutSecs:   120,
		},
	}
}

func TestRunQuestionMatrix(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	f.questions.questions = []*models.Question{
		{ID: uuid.New(), BrandID: brand.ID, Text: "What is the best CRM for startups?", Category: models.CategoryDiscovery, IsActive: true},
		{ID: uuid.New(), BrandID: brand.ID, Text: "Acme Corp vs Salesforce?", Category: models.CategoryComparison, IsActive: true},
	}

	chatgpt := &stubProvider{
		platform: models.PlatformChatGPT,
		response: &models.RawResponse{
			Platform:     models.PlatformChatGPT,
			ResponseText: "I recommend Acme Corp for its excellent support.",
			InputTokens:  50,
			OutputTokens: 20,
			Cost:         0.001,
			Status:       models.ResponseCompleted,
		},
	}
	claude := &stubProvider{
		platform: models.PlatformClaude,
		response: &models.RawResponse{
			Platform: models.PlatformClaude,
			Status:   models.ResponseFailed,
			Error:    "rate limited",
		},
	}

	analysisSvc := services.NewAnalysisService(f.repos)
	runner := services.NewQuestionRunnerService(runnerConfig(), f.repos, analysisSvc,
		[]services.AIProvider{chatgpt, claude})

	summary, err := runner.RunQuestionMatrix(context.Background(), brand)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.QuestionsProcessed)
	assert.Equal(t, 2, summary.ExecutionsCompleted)
	assert.Equal(t, 2, summary.ExecutionsFailed)
	assert.InDelta(t, 0.002, summary.TotalCost, 0.0001)
	assert.Empty(t, summary.ProcessingErrors)

	assert.Equal(t, 2, chatgpt.calls)
	assert.Equal(t, 2, claude.calls)

	// Every unit, failed included, produced an execution and a record.
	assert.Len(t, f.executions.executions, 4)
	assert.Len(t, f.analyses.created, 4)
}

func TestProcessSingleQuestionUnknownPlatform(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	question := &models.Question{ID: uuid.New(), BrandID: brand.ID, Text: "best CRM?", IsActive: true}

	analysisSvc := services.NewAnalysisService(f.repos)
	runner := services.NewQuestionRunnerService(runnerConfig(), f.repos, analysisSvc, nil)

	_, err := runner.ProcessSingleQuestion(context.Background(), brand, question, models.PlatformGemini)
	assert.Error(t, err)
}
