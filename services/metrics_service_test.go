// services/metrics_service_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/services"
)

func intPtr(v int) *int { return &v }

var metricsDay = time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)

func analyzedRow(brandID uuid.UUID, platform models.Platform, status models.ExecutionStatus, record *models.AnalysisRecord) models.AnalyzedExecution {
	execID := uuid.New()
	if record != nil {
		record.ExecutionID = execID
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
	}
	return models.AnalyzedExecution{
		Execution: models.QueryExecution{
			ID:         execID,
			QuestionID: uuid.New(),
			BrandID:    brandID,
			Platform:   platform,
			Status:     status,
			ExecutedAt: metricsDay.Add(10 * time.Hour),
		},
		Analysis: record,
	}
}

func TestComputeDailyMetricsSingleStrongRecord(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	f.analyses.rows = []models.AnalyzedExecution{
		analyzedRow(brand.ID, models.PlatformChatGPT, models.ExecutionCompleted, &models.AnalysisRecord{
			BrandMentioned: true,
			MentionCount:   2,
			Position:       intPtr(1),
			SentimentScore: 1.0,
			SentimentLabel: "positive",
			Citations: []models.Citation{
				{Domain: "g2.com", AuthorityScore: 0.95},
			},
		}),
	}

	svc := services.NewMetricsService(f.repos)
	metrics, err := svc.ComputeDailyMetrics(context.Background(), brand.ID, metricsDay)
	require.NoError(t, err)

	// Perfect mention rate, top rank, maximally positive sentiment.
	assert.InDelta(t, 100.0, metrics.VisibilityScore, 0.001)
	assert.InDelta(t, 100.0, metrics.ShareOfVoice, 0.001)
	assert.Equal(t, 2, metrics.MentionCount)
	assert.Equal(t, 1, metrics.TotalQueries)
	assert.Equal(t, 1, metrics.SuccessfulQueries)
	require.NotNil(t, metrics.CitationQuality)
	assert.InDelta(t, 0.95, *metrics.CitationQuality, 0.001)

	pm, ok := metrics.PlatformBreakdown[models.PlatformChatGPT]
	require.True(t, ok)
	assert.InDelta(t, 100.0, pm.VisibilityScore, 0.001)
	require.NotNil(t, pm.PositionAvg)
	assert.InDelta(t, 1.0, *pm.PositionAvg, 0.001)
}

func TestComputeDailyMetricsEmptyWindow(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	svc := services.NewMetricsService(f.repos)
	metrics, err := svc.ComputeDailyMetrics(context.Background(), brand.ID, metricsDay)
	require.NoError(t, err)

	assert.Zero(t, metrics.VisibilityScore)
	assert.Zero(t, metrics.SentimentAvg)
	assert.Zero(t, metrics.MentionCount)
	assert.Zero(t, metrics.ShareOfVoice)
	assert.Zero(t, metrics.TotalQueries)
	assert.Nil(t, metrics.CitationQuality)
	assert.Empty(t, metrics.PlatformBreakdown)
	assert.Empty(t, metrics.TopCitations)
}

func TestComputeDailyMetricsShareOfVoiceZero(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	// Competitors mentioned, brand absent: share of voice is 0, not an error.
	f.analyses.rows = []models.AnalyzedExecution{
		analyzedRow(brand.ID, models.PlatformClaude, models.ExecutionCompleted, &models.AnalysisRecord{
			BrandMentioned:     false,
			SentimentLabel:     "neutral",
			CompetitorMentions: map[string]int{"Salesforce": 1, "HubSpot": 1},
		}),
	}

	svc := services.NewMetricsService(f.repos)
	metrics, err := svc.ComputeDailyMetrics(context.Background(), brand.ID, metricsDay)
	require.NoError(t, err)

	assert.Zero(t, metrics.ShareOfVoice)
	assert.Zero(t, metrics.VisibilityScore)
	assert.Zero(t, metrics.MentionCount)
	assert.Equal(t, 1, metrics.TotalQueries)
}

func TestComputeDailyMetricsIdempotent(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	f.analyses.rows = []models.AnalyzedExecution{
		analyzedRow(brand.ID, models.PlatformChatGPT, models.ExecutionCompleted, &models.AnalysisRecord{
			BrandMentioned:     true,
			MentionCount:       1,
			Position:           intPtr(3),
			SentimentScore:     0.4,
			SentimentLabel:     "positive",
			CompetitorMentions: map[string]int{"HubSpot": 2},
			Citations: []models.Citation{
				{Domain: "g2.com", AuthorityScore: 0.95},
				{Domain: "medium.com", AuthorityScore: 0.55},
			},
		}),
		analyzedRow(brand.ID, models.PlatformGemini, models.ExecutionFailed, nil),
	}

	svc := services.NewMetricsService(f.repos)

	first, err := svc.ComputeDailyMetrics(context.Background(), brand.ID, metricsDay)
	require.NoError(t, err)
	second, err := svc.ComputeDailyMetrics(context.Background(), brand.ID, metricsDay)
	require.NoError(t, err)

	// Row identity is regenerated per run; every figure must match exactly.
	first.ID = uuid.Nil
	second.ID = uuid.Nil
	assert.Equal(t, first, second)
}

func TestGetTrendsGapFree(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	seed := func(date time.Time, visibility float64) {
		require.NoError(t, f.metrics.Upsert(context.Background(), &models.DailyMetrics{
			ID:              uuid.New(),
			BrandID:         brand.ID,
			Date:            date,
			VisibilityScore: visibility,
		}))
	}
	seed(today, 72.5)
	seed(today.AddDate(0, 0, -2), 64.0)

	svc := services.NewMetricsService(f.repos)
	series, err := svc.GetTrends(context.Background(), brand.ID, services.MetricVisibility, 7)
	require.NoError(t, err)

	require.Len(t, series.Points, 7)
	assert.Equal(t, today.AddDate(0, 0, -6), series.PeriodStart)
	assert.Equal(t, today, series.PeriodEnd)

	for i, point := range series.Points {
		assert.Equal(t, today.AddDate(0, 0, i-6), point.Date)
	}
	assert.InDelta(t, 64.0, series.Points[4].Value, 0.001)
	assert.InDelta(t, 72.5, series.Points[6].Value, 0.001)
	assert.Zero(t, series.Points[0].Value)
	assert.Zero(t, series.Points[5].Value)
}

func TestGetTrendsRejectsUnknownMetric(t *testing.T) {
	f := newFixture()
	svc := services.NewMetricsService(f.repos)

	_, err := svc.GetTrends(context.Background(), uuid.New(), "latency", 7)
	assert.Error(t, err)
}

func TestGetOverviewWithChange(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	require.NoError(t, f.metrics.Upsert(context.Background(), &models.DailyMetrics{
		ID:              uuid.New(),
		BrandID:         brand.ID,
		Date:            metricsDay.AddDate(0, 0, -1),
		VisibilityScore: 60.0,
	}))
	require.NoError(t, f.metrics.Upsert(context.Background(), &models.DailyMetrics{
		ID:              uuid.New(),
		BrandID:         brand.ID,
		Date:            metricsDay,
		VisibilityScore: 75.0,
		SentimentAvg:    0.5,
		ShareOfVoice:    40.0,
		MentionCount:    12,
		PlatformBreakdown: map[models.Platform]models.PlatformMetrics{
			models.PlatformChatGPT: {Platform: models.PlatformChatGPT, VisibilityScore: 80.0},
		},
	}))

	svc := services.NewMetricsService(f.repos)
	overview, err := svc.GetOverview(context.Background(), brand.ID)
	require.NoError(t, err)

	assert.Equal(t, brand.Name, overview.BrandName)
	assert.InDelta(t, 75.0, overview.VisibilityScore, 0.001)
	assert.InDelta(t, 15.0, overview.VisibilityChange, 0.001)
	assert.Equal(t, "positive", overview.SentimentLabel)
	assert.Equal(t, 12, overview.TotalMentions)
	assert.InDelta(t, 80.0, overview.PlatformScores[models.PlatformChatGPT], 0.001)
}

func TestGetOverviewNoData(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	svc := services.NewMetricsService(f.repos)
	overview, err := svc.GetOverview(context.Background(), brand.ID)
	require.NoError(t, err)

	assert.Zero(t, overview.VisibilityScore)
	assert.Equal(t, "neutral", overview.SentimentLabel)
}

func TestGetCompetitorAnalysis(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	f.analyses.rows = []models.AnalyzedExecution{
		analyzedRow(brand.ID, models.PlatformChatGPT, models.ExecutionCompleted, &models.AnalysisRecord{
			BrandMentioned:     true,
			MentionCount:       2,
			SentimentScore:     0.6,
			SentimentLabel:     "positive",
			CompetitorMentions: map[string]int{"Salesforce": 1, "HubSpot": 1},
		}),
	}

	svc := services.NewMetricsService(f.repos)
	result, err := svc.GetCompetitorAnalysis(context.Background(), brand.ID, metricsDay, metricsDay.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", result.Brand.Name)
	assert.Equal(t, 2, result.Brand.MentionCount)
	assert.InDelta(t, 50.0, result.Brand.ShareOfVoice, 0.001)

	require.Len(t, result.Competitors, 2)
	assert.Equal(t, "Salesforce", result.Competitors[0].Name)
	assert.Equal(t, 1, result.Competitors[0].MentionCount)
	assert.InDelta(t, 25.0, result.Competitors[0].ShareOfVoice, 0.001)
	assert.Equal(t, "HubSpot", result.Competitors[1].Name)
	assert.InDelta(t, 25.0, result.Competitors[1].ShareOfVoice, 0.001)
}

func TestGetQuestionDrilldownsGroupsByQuestion(t *testing.T) {
	f := newFixture()
	brand := testBrand()
	f.brands.brands[brand.ID] = brand

	q1 := uuid.New()
	q2 := uuid.New()
	makeRow := func(questionID uuid.UUID, platform models.Platform, offset time.Duration) models.AnalyzedExecution {
		row := analyzedRow(brand.ID, platform, models.ExecutionCompleted, &models.AnalysisRecord{
			BrandMentioned: true,
			MentionCount:   1,
			SentimentLabel: "neutral",
		})
		row.Execution.QuestionID = questionID
		row.Execution.ExecutedAt = metricsDay.Add(offset)
		row.Question = models.Question{ID: questionID, BrandID: brand.ID, Text: "q-" + questionID.String()[:8]}
		return row
	}

	f.analyses.rows = []models.AnalyzedExecution{
		makeRow(q1, models.PlatformChatGPT, 1*time.Hour),
		makeRow(q2, models.PlatformClaude, 2*time.Hour),
		makeRow(q1, models.PlatformPerplexity, 3*time.Hour),
	}

	svc := services.NewMetricsService(f.repos)
	drilldowns, err := svc.GetQuestionDrilldowns(context.Background(), brand.ID, metricsDay, metricsDay.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, drilldowns, 2)
	assert.Equal(t, q1, drilldowns[0].QuestionID)
	require.Len(t, drilldowns[0].Results, 2)
	assert.Equal(t, models.PlatformChatGPT, drilldowns[0].Results[0].Platform)
	assert.Equal(t, models.PlatformPerplexity, drilldowns[0].Results[1].Platform)
	assert.Equal(t, q2, drilldowns[1].QuestionID)
	require.Len(t, drilldowns[1].Results, 1)
}
