// internal/analysis/record.go
package analysis

import (
	"github.com/answer-engine/aea-workflows/internal/models"
)

// BrandProfile is the read-only brand input the passes need.
type BrandProfile struct {
	Name        string
	Domain      string
	Aliases     []string
	Competitors []string
}

// Result is the assembled output of all analysis passes over one response.
// Everything here except identity and timestamps; the orchestrator attaches
// those when persisting.
type Result struct {
	BrandMentioned       bool
	MentionCount         int
	Position             *int
	TotalRecommendations int
	SentimentLabel       string
	SentimentScore       float64
	MentionTypes         models.MentionTypeBreakdown
	CompetitorMentions   map[string]int
	Citations            []models.Citation
	ComparisonStats      models.ComparisonStats
	AspectSentiments     []models.AspectSentiment
	DominantAspect       *string
}

// Analyze runs the full pass sequence over one response text: citation
// extraction, mention location, sentiment scoring, comparison and aspect
// analysis. It is a pure function of its inputs with no I/O; an empty
// response yields the same degraded result as a response with no mentions.
func Analyze(text string, hints []models.CitationHint, brand BrandProfile) Result {
	report := LocateMentions(text, brand.Name, brand.Aliases, brand.Competitors)

	position, totalRecs := ListPosition(text, brand.Name, brand.Aliases)
	if report.MentionCount == 0 {
		position = nil
	}

	score, label := ScoreMentions(text, report.BrandMentions)
	aspects, dominant := AnalyzeAspects(text, report.BrandMentions, brand.Name, brand.Aliases, brand.Competitors)

	return Result{
		BrandMentioned:       report.MentionCount > 0,
		MentionCount:         report.MentionCount,
		Position:             position,
		TotalRecommendations: totalRecs,
		SentimentLabel:       label,
		SentimentScore:       score,
		MentionTypes:         ClassifyMentions(text, report.BrandMentions, brand.Competitors),
		CompetitorMentions:   report.CompetitorMentions,
		Citations:            ExtractCitations(text, hints, brand.Name, brand.Domain),
		ComparisonStats:      AnalyzeComparisons(text, report.BrandMentions, brand.Competitors),
		AspectSentiments:     aspects,
		DominantAspect:       dominant,
	}
}

// FailedResult is the placeholder for responses whose adapter call failed or
// timed out: nothing is guessed from partial text, every figure is zeroed.
func FailedResult() Result {
	return Result{
		SentimentLabel:     SentimentNeutral,
		CompetitorMentions: map[string]int{},
		ComparisonStats:    models.ComparisonStats{Targets: map[string]int{}},
	}
}
