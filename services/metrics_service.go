// services/metrics_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/analysis"
	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/internal/store"
)

// Visibility score weights. Fixed configuration constants summing to 100;
// each component is normalized to [0, 1] before weighting.
const (
	visibilityMentionWeight   = 40.0
	visibilityPositionWeight  = 30.0
	visibilitySentimentWeight = 30.0

	// Ranks at or beyond this depth contribute nothing to position score.
	maxListPosition = 10

	topCitationLimit = 10
)

// Trend metric names accepted by GetTrends.
const (
	MetricVisibility   = "visibility"
	MetricSentiment    = "sentiment"
	MetricMentions     = "mentions"
	MetricShareOfVoice = "share_of_voice"
)

type metricsService struct {
	repos *RepositoryManager
}

func NewMetricsService(repos *RepositoryManager) MetricsService {
	return &metricsService{repos: repos}
}

// windowStats accumulates everything the aggregation formulas need over one
// set of analyzed executions.
type windowStats struct {
	totalQueries       int
	successfulQueries  int
	mentionedResponses int
	mentionCount       int
	competitorMentions map[string]int

	sentimentSum float64
	sentimentN   int
	positionSum  float64
	positionN    int

	authoritySum float64
	citationN    int
	domainCounts map[string]int
}

func accumulate(rows []models.AnalyzedExecution) windowStats {
	stats := windowStats{
		competitorMentions: map[string]int{},
		domainCounts:       map[string]int{},
	}

	for _, row := range rows {
		stats.totalQueries++
		if row.Execution.Status == models.ExecutionCompleted {
			stats.successfulQueries++
		}

		record := row.Analysis
		if record == nil {
			continue
		}
		if record.BrandMentioned {
			stats.mentionedResponses++
			stats.sentimentSum += record.SentimentScore
			stats.sentimentN++
		}
		stats.mentionCount += record.MentionCount
		for name, count := range record.CompetitorMentions {
			stats.competitorMentions[name] += count
		}
		if record.Position != nil {
			stats.positionSum += float64(*record.Position)
			stats.positionN++
		}
		for _, citation := range record.Citations {
			stats.authoritySum += citation.AuthorityScore
			stats.citationN++
			stats.domainCounts[citation.Domain]++
		}
	}

	return stats
}

// visibilityScore folds the window stats into a 0-100 figure. Components
// absent from the window (no ranked lists, no mentions) contribute zero
// rather than a neutral midpoint, so an invisible brand scores 0.
func (s windowStats) visibilityScore() float64 {
	if s.totalQueries == 0 {
		return 0
	}

	mentionRate := float64(s.mentionedResponses) / float64(s.totalQueries)

	positionScore := 0.0
	if s.positionN > 0 {
		avg := s.positionSum / float64(s.positionN)
		positionScore = 1 - (avg-1)/float64(maxListPosition)
		if positionScore < 0 {
			positionScore = 0
		}
		if positionScore > 1 {
			positionScore = 1
		}
	}

	sentimentComponent := 0.0
	if s.sentimentN > 0 {
		avg := s.sentimentSum / float64(s.sentimentN)
		sentimentComponent = (avg + 1) / 2
	}

	return mentionRate*visibilityMentionWeight +
		positionScore*visibilityPositionWeight +
		sentimentComponent*visibilitySentimentWeight
}

func (s windowStats) sentimentAvg() float64 {
	if s.sentimentN == 0 {
		return 0
	}
	return s.sentimentSum / float64(s.sentimentN)
}

// shareOfVoice is brand mentions over all mentions, as a percentage. Zero
// denominator reads as 0, not an error.
func (s windowStats) shareOfVoice() float64 {
	total := s.mentionCount
	for _, count := range s.competitorMentions {
		total += count
	}
	if total == 0 {
		return 0
	}
	return float64(s.mentionCount) / float64(total) * 100
}

// ComputeDailyMetrics recomputes one (brand, day) row from scratch and
// upserts it. The computation is a pure function of the execution snapshot
// it reads; running it twice over unchanged records writes identical rows.
func (s *metricsService) ComputeDailyMetrics(ctx context.Context, brandID uuid.UUID, day time.Time) (*models.DailyMetrics, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := s.repos.AnalysisRepo.ListByBrandWindow(ctx, brandID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyzed executions: %w", err)
	}

	stats := accumulate(rows)

	metrics := &models.DailyMetrics{
		ID:                uuid.New(),
		BrandID:           brandID,
		Date:              dayStart,
		VisibilityScore:   stats.visibilityScore(),
		SentimentAvg:      stats.sentimentAvg(),
		MentionCount:      stats.mentionCount,
		ShareOfVoice:      stats.shareOfVoice(),
		PlatformBreakdown: platformBreakdown(rows),
		TopCitations:      topDomains(stats.domainCounts, topCitationLimit),
		TotalQueries:      stats.totalQueries,
		SuccessfulQueries: stats.successfulQueries,
	}
	if stats.citationN > 0 {
		quality := stats.authoritySum / float64(stats.citationN)
		metrics.CitationQuality = &quality
	}

	if err := s.repos.MetricsRepo.Upsert(ctx, metrics); err != nil {
		return nil, fmt.Errorf("failed to upsert daily metrics: %w", err)
	}

	fmt.Printf("[ComputeDailyMetrics] Brand %s on %s: visibility=%.1f sov=%.1f mentions=%d queries=%d\n",
		brandID, dayStart.Format("2006-01-02"), metrics.VisibilityScore, metrics.ShareOfVoice,
		metrics.MentionCount, metrics.TotalQueries)

	return metrics, nil
}

func platformBreakdown(rows []models.AnalyzedExecution) map[models.Platform]models.PlatformMetrics {
	byPlatform := map[models.Platform][]models.AnalyzedExecution{}
	for _, row := range rows {
		byPlatform[row.Execution.Platform] = append(byPlatform[row.Execution.Platform], row)
	}

	breakdown := make(map[models.Platform]models.PlatformMetrics, len(byPlatform))
	for platform, platformRows := range byPlatform {
		stats := accumulate(platformRows)
		pm := models.PlatformMetrics{
			Platform:          platform,
			TotalQueries:      stats.totalQueries,
			SuccessfulQueries: stats.successfulQueries,
			Mentions:          stats.mentionCount,
			VisibilityScore:   stats.visibilityScore(),
		}
		if stats.sentimentN > 0 {
			avg := stats.sentimentSum / float64(stats.sentimentN)
			pm.SentimentAvg = &avg
		}
		if stats.positionN > 0 {
			avg := stats.positionSum / float64(stats.positionN)
			pm.PositionAvg = &avg
		}
		breakdown[platform] = pm
	}
	return breakdown
}

// topDomains ranks citation domains by count descending, ties broken
// alphabetically so repeated aggregations order identically.
func topDomains(counts map[string]int, limit int) []models.DomainCount {
	ranked := make([]models.DomainCount, 0, len(counts))
	for domain, count := range counts {
		ranked = append(ranked, models.DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Domain < ranked[j].Domain
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// GetOverview returns the dashboard headline payload from the latest daily
// metrics row, with day-over-day visibility change.
func (s *metricsService) GetOverview(ctx context.Context, brandID uuid.UUID) (*models.VisibilityOverview, error) {
	brand, err := s.repos.BrandRepo.GetByID(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}

	overview := &models.VisibilityOverview{
		BrandID:        brandID,
		BrandName:      brand.Name,
		SentimentLabel: analysis.SentimentNeutral,
		PlatformScores: map[models.Platform]float64{},
	}

	latest, err := s.repos.MetricsRepo.Latest(ctx, brandID)
	if errors.Is(err, store.ErrNotFound) {
		return overview, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest metrics: %w", err)
	}

	overview.VisibilityScore = latest.VisibilityScore
	overview.SentimentScore = latest.SentimentAvg
	overview.SentimentLabel = analysis.SentimentLabel(latest.SentimentAvg)
	overview.ShareOfVoice = latest.ShareOfVoice
	overview.TotalMentions = latest.MentionCount
	for platform, pm := range latest.PlatformBreakdown {
		overview.PlatformScores[platform] = pm.VisibilityScore
	}

	previous, err := s.repos.MetricsRepo.GetByBrandDate(ctx, brandID, latest.Date.AddDate(0, 0, -1))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load previous metrics: %w", err)
	}
	if previous != nil {
		overview.VisibilityChange = latest.VisibilityScore - previous.VisibilityScore
	}

	return overview, nil
}

// GetTrends returns one point per trailing calendar day, exactly days long.
// Days with no metrics row read as zero.
func (s *metricsService) GetTrends(ctx context.Context, brandID uuid.UUID, metric string, days int) (*models.TrendSeries, error) {
	switch metric {
	case MetricVisibility, MetricSentiment, MetricMentions, MetricShareOfVoice:
	default:
		return nil, fmt.Errorf("unknown trend metric %q", metric)
	}
	if days < 1 {
		return nil, fmt.Errorf("day count must be positive, got %d", days)
	}

	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))

	rows, err := s.repos.MetricsRepo.ListRange(ctx, brandID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics range: %w", err)
	}

	byDay := make(map[string]*models.DailyMetrics, len(rows))
	for _, row := range rows {
		byDay[row.Date.Format("2006-01-02")] = row
	}

	points := make([]models.TrendPoint, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		value := 0.0
		if row, ok := byDay[d.Format("2006-01-02")]; ok {
			switch metric {
			case MetricVisibility:
				value = row.VisibilityScore
			case MetricSentiment:
				value = row.SentimentAvg
			case MetricMentions:
				value = float64(row.MentionCount)
			case MetricShareOfVoice:
				value = row.ShareOfVoice
			}
		}
		points = append(points, models.TrendPoint{Date: d, Value: value})
	}

	return &models.TrendSeries{
		Metric:      metric,
		Points:      points,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil
}

// GetCompetitorAnalysis summarizes brand-vs-competitor standing over a
// window. Competitors only appear in responses as mentions, so their rows
// carry mention counts and share of voice; visibility and sentiment are not
// tracked per competitor and read as zero.
func (s *metricsService) GetCompetitorAnalysis(ctx context.Context, brandID uuid.UUID, from, to time.Time) (*models.CompetitorAnalysis, error) {
	brand, err := s.repos.BrandRepo.GetByID(ctx, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to load brand: %w", err)
	}

	rows, err := s.repos.AnalysisRepo.ListByBrandWindow(ctx, brandID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyzed executions: %w", err)
	}

	stats := accumulate(rows)

	totalMentions := stats.mentionCount
	for _, count := range stats.competitorMentions {
		totalMentions += count
	}

	result := &models.CompetitorAnalysis{
		Brand: models.CompetitorComparison{
			Name:            brand.Name,
			VisibilityScore: stats.visibilityScore(),
			SentimentScore:  stats.sentimentAvg(),
			MentionCount:    stats.mentionCount,
			ShareOfVoice:    stats.shareOfVoice(),
		},
		PeriodStart: from,
		PeriodEnd:   to,
	}

	for _, name := range brand.Competitors {
		count := stats.competitorMentions[name]
		share := 0.0
		if totalMentions > 0 {
			share = float64(count) / float64(totalMentions) * 100
		}
		result.Competitors = append(result.Competitors, models.CompetitorComparison{
			Name:         name,
			MentionCount: count,
			ShareOfVoice: share,
		})
	}

	return result, nil
}

// GetQuestionDrilldowns groups analyzed executions by question for the
// dashboard's detailed view, preserving execution order within each group.
func (s *metricsService) GetQuestionDrilldowns(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]models.QuestionDrilldown, error) {
	rows, err := s.repos.AnalysisRepo.ListByBrandWindow(ctx, brandID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load analyzed executions: %w", err)
	}

	index := map[uuid.UUID]int{}
	drilldowns := []models.QuestionDrilldown{}
	for _, row := range rows {
		i, seen := index[row.Question.ID]
		if !seen {
			i = len(drilldowns)
			index[row.Question.ID] = i
			drilldowns = append(drilldowns, models.QuestionDrilldown{
				QuestionID:   row.Question.ID,
				QuestionText: row.Question.Text,
				Category:     row.Question.Category,
			})
		}
		drilldowns[i].Results = append(drilldowns[i].Results, models.QuestionResultDetail{
			Platform: row.Execution.Platform,
			Status:   row.Execution.Status,
			Analysis: row.Analysis,
		})
	}

	return drilldowns, nil
}
