// services/analysis_service_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/services"
)

func testBrand() *models.Brand {
	return &models.Brand{
		ID:          uuid.New(),
		Name:        "Acme Corp",
		Domain:      "acme.com",
		Keywords:    []string{"Acme"},
		Competitors: []string{"Salesforce", "HubSpot"},
		IsActive:    true,
	}
}

func pendingExecution(brand *models.Brand, platform models.Platform) *models.QueryExecution {
	return &models.QueryExecution{
		ID:         uuid.New(),
		QuestionID: uuid.New(),
		BrandID:    brand.ID,
		Platform:   platform,
		Status:     models.ExecutionPending,
	}
}

func TestAnalyzeResponseCompleted(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	execution := pendingExecution(brand, models.PlatformChatGPT)
	f.executions.executions[execution.ID] = execution

	svc := services.NewAnalysisService(f.repos)

	raw := &models.RawResponse{
		Platform:     models.PlatformChatGPT,
		ResponseText: "1. Salesforce\n2. Acme Corp – great support\n3. HubSpot",
		Status:       models.ResponseCompleted,
	}

	record, err := svc.AnalyzeResponse(context.Background(), execution, brand, raw)
	require.NoError(t, err)

	assert.True(t, record.BrandMentioned)
	assert.Equal(t, 1, record.MentionCount)
	require.NotNil(t, record.Position)
	assert.Equal(t, 2, *record.Position)
	assert.Equal(t, 3, record.TotalRecommendations)
	assert.Equal(t, "positive", record.SentimentLabel)
	assert.Equal(t, execution.ID, record.ExecutionID)
	assert.False(t, record.AnalyzedAt.IsZero())

	require.Len(t, f.analyses.created, 1)
	assert.Equal(t, record, f.analyses.created[0])

	assert.Equal(t,
		[]models.ExecutionStatus{models.ExecutionAnalyzing, models.ExecutionCompleted},
		f.executions.statusLog[execution.ID])
}

func TestAnalyzeResponseFailedPlaceholder(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	execution := pendingExecution(brand, models.PlatformPerplexity)
	f.executions.executions[execution.ID] = execution

	svc := services.NewAnalysisService(f.repos)

	raw := &models.RawResponse{
		Platform: models.PlatformPerplexity,
		Status:   models.ResponseTimeout,
		Error:    "context deadline exceeded",
	}

	record, err := svc.AnalyzeResponse(context.Background(), execution, brand, raw)
	require.NoError(t, err)

	assert.False(t, record.BrandMentioned)
	assert.Equal(t, 0, record.MentionCount)
	assert.Nil(t, record.Position)
	assert.Equal(t, "neutral", record.SentimentLabel)
	assert.Zero(t, record.SentimentScore)
	assert.Empty(t, record.Citations)
	assert.Zero(t, record.MentionTypes.Total())

	require.Len(t, f.analyses.created, 1)
	assert.Equal(t,
		[]models.ExecutionStatus{models.ExecutionAnalyzing, models.ExecutionFailed},
		f.executions.statusLog[execution.ID])
}

func TestAnalyzeResponseEmptyText(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	execution := pendingExecution(brand, models.PlatformClaude)
	f.executions.executions[execution.ID] = execution

	svc := services.NewAnalysisService(f.repos)

	// Vendor reported success but sent nothing back. Treated the same as a
	// failed call: placeholder record, failed execution.
	raw := &models.RawResponse{
		Platform:     models.PlatformClaude,
		ResponseText: "",
		Status:       models.ResponseCompleted,
	}

	record, err := svc.AnalyzeResponse(context.Background(), execution, brand, raw)
	require.NoError(t, err)

	assert.False(t, record.BrandMentioned)
	assert.Equal(t,
		[]models.ExecutionStatus{models.ExecutionAnalyzing, models.ExecutionFailed},
		f.executions.statusLog[execution.ID])
}
