// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies one of the supported AI answer engines.
type Platform string

const (
	PlatformChatGPT    Platform = "chatgpt"
	PlatformClaude     Platform = "claude"
	PlatformPerplexity Platform = "perplexity"
	PlatformGemini     Platform = "gemini"
)

// AllPlatforms returns every supported platform in a fixed order.
func AllPlatforms() []Platform {
	return []Platform{PlatformChatGPT, PlatformClaude, PlatformPerplexity, PlatformGemini}
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformChatGPT, PlatformClaude, PlatformPerplexity, PlatformGemini:
		return true
	}
	return false
}

// ResponseStatus is the completion status reported by a platform adapter call.
type ResponseStatus string

const (
	ResponseCompleted ResponseStatus = "completed"
	ResponseFailed    ResponseStatus = "failed"
	ResponseTimeout   ResponseStatus = "timeout"
)

// ExecutionStatus tracks the analysis lifecycle of a query execution.
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionAnalyzing ExecutionStatus = "analyzing"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// QuestionCategory tags what kind of buyer intent a canned question probes.
type QuestionCategory string

const (
	CategoryDiscovery      QuestionCategory = "discovery"
	CategoryComparison     QuestionCategory = "comparison"
	CategoryEvaluation     QuestionCategory = "evaluation"
	CategoryFeature        QuestionCategory = "feature"
	CategoryProblemSolving QuestionCategory = "problem-solving"
	CategoryIndustry       QuestionCategory = "industry"
	CategoryPricing        QuestionCategory = "pricing"
)

// Brand is a monitored company. Owned by the brand-management collaborator;
// the analysis pipeline only reads it.
type Brand struct {
	ID          uuid.UUID `json:"id" db:"brand_id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Domain      string    `json:"domain" db:"domain"`
	Keywords    []string  `json:"keywords"`    // alias names that also count as brand mentions
	Competitors []string  `json:"competitors"` // competitor names tracked for share of voice
	Products    []string  `json:"products"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Question is one canned question issued to every platform for a brand.
type Question struct {
	ID        uuid.UUID        `json:"id" db:"question_id"`
	BrandID   uuid.UUID        `json:"brand_id" db:"brand_id"`
	Text      string           `json:"text" db:"question_text"`
	Category  QuestionCategory `json:"category" db:"category"`
	IsActive  bool             `json:"is_active" db:"is_active"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// CitationHint is a vendor-supplied source reference (e.g. Perplexity
// search_results) attached to a raw response.
type CitationHint struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// RawResponse is the boundary object produced by a platform adapter call.
// The analysis pipeline consumes it; it is never persisted as-is.
type RawResponse struct {
	Platform      Platform       `json:"platform"`
	QuestionText  string         `json:"question_text"`
	ResponseText  string         `json:"response_text"`
	CitationHints []CitationHint `json:"citation_hints,omitempty"`
	InputTokens   int            `json:"input_tokens"`
	OutputTokens  int            `json:"output_tokens"`
	Cost          float64        `json:"cost"`
	LatencyMS     int            `json:"latency_ms"`
	Status        ResponseStatus `json:"status"`
	Error         string         `json:"error,omitempty"`
}

// QueryExecution records one (question, platform) AI call and its analysis
// lifecycle state.
type QueryExecution struct {
	ID           uuid.UUID       `json:"id" db:"execution_id"`
	QuestionID   uuid.UUID       `json:"question_id" db:"question_id"`
	BrandID      uuid.UUID       `json:"brand_id" db:"brand_id"`
	Platform     Platform        `json:"platform" db:"platform"`
	ResponseText string          `json:"response_text" db:"response_text"`
	Status       ExecutionStatus `json:"status" db:"status"`
	LatencyMS    int             `json:"latency_ms" db:"latency_ms"`
	InputTokens  int             `json:"input_tokens" db:"input_tokens"`
	OutputTokens int             `json:"output_tokens" db:"output_tokens"`
	TotalCost    float64         `json:"total_cost" db:"total_cost"`
	ExecutedAt   time.Time       `json:"executed_at" db:"executed_at"`
}

// Citation is one extracted source reference with classification and trust
// weighting attached.
type Citation struct {
	URL             string  `json:"url"`
	Domain          string  `json:"domain"`
	Title           string  `json:"title,omitempty"`
	SourceType      string  `json:"source_type"` // review_site, news, community, blog, official, general
	AuthorityScore  float64 `json:"authority_score"`
	BrandAttributed bool    `json:"brand_attributed"`
}

// MentionTypeBreakdown counts brand mentions by classified type. The five
// counts sum to the record's mention count.
type MentionTypeBreakdown struct {
	Recommendation   int `json:"recommendation"`
	Criticism        int `json:"criticism"`
	Comparison       int `json:"comparison"`
	FeatureHighlight int `json:"feature_highlight"`
	Neutral          int `json:"neutral"`
}

// Total returns the sum of all mention type counts.
func (b MentionTypeBreakdown) Total() int {
	return b.Recommendation + b.Criticism + b.Comparison + b.FeatureHighlight + b.Neutral
}

// ComparisonStats summarizes brand-vs-competitor comparison sentences.
// Wins + Losses + Draws always equals Total.
type ComparisonStats struct {
	Total   int            `json:"total"`
	Wins    int            `json:"wins"`
	Losses  int            `json:"losses"`
	Draws   int            `json:"draws"`
	Targets map[string]int `json:"targets"` // competitor name -> times compared against
}

// AspectSentiment is the sentiment attributed to one product aspect, with
// verbatim evidence sentences.
type AspectSentiment struct {
	Aspect       string   `json:"aspect"`
	Label        string   `json:"label"`
	Score        float64  `json:"score"`
	Evidence     []string `json:"evidence"`
	MentionCount int      `json:"mention_count"`
}

// AnalysisRecord is the immutable, append-only output of analyzing one raw
// response. Created exactly once per execution and never mutated.
type AnalysisRecord struct {
	ID          uuid.UUID `json:"id" db:"analysis_id"`
	ExecutionID uuid.UUID `json:"execution_id" db:"execution_id"`

	BrandMentioned bool `json:"brand_mentioned" db:"brand_mentioned"`
	MentionCount   int  `json:"mention_count" db:"mention_count"`

	// Position is the 1-based rank of the brand inside a detected
	// recommendation list; nil when the response has no list structure or
	// the brand is absent from it.
	Position             *int `json:"position" db:"position"`
	TotalRecommendations int  `json:"total_recommendations" db:"total_recommendations"`

	SentimentLabel string  `json:"sentiment_label" db:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score" db:"sentiment_score"`

	MentionTypes       MentionTypeBreakdown `json:"mention_type_breakdown"`
	CompetitorMentions map[string]int       `json:"competitor_mentions"`
	Citations          []Citation           `json:"citations"`
	ComparisonStats    ComparisonStats      `json:"comparison_stats"`
	AspectSentiments   []AspectSentiment    `json:"aspect_sentiments"`
	DominantAspect     *string              `json:"dominant_aspect" db:"dominant_aspect"`

	AnalyzedAt time.Time `json:"analyzed_at" db:"analyzed_at"`
}

// AnalyzedExecution joins one execution with its question and analysis
// record. It is the aggregator's input row and the drill-down view's source.
type AnalyzedExecution struct {
	Execution QueryExecution  `json:"execution"`
	Question  Question        `json:"question"`
	Analysis  *AnalysisRecord `json:"analysis,omitempty"`
}

// DomainCount is one entry of a citation-domain frequency ranking.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// PlatformMetrics is the per-platform slice of a daily aggregation.
type PlatformMetrics struct {
	Platform          Platform `json:"platform"`
	TotalQueries      int      `json:"total_queries"`
	SuccessfulQueries int      `json:"successful_queries"`
	Mentions          int      `json:"mentions"`
	SentimentAvg      *float64 `json:"sentiment_avg"`
	PositionAvg       *float64 `json:"position_avg"`
	VisibilityScore   float64  `json:"visibility_score"`
}

// DailyMetrics is the materialized per-(brand, day) aggregation of analysis
// records. Recomputed wholesale, never patched incrementally.
type DailyMetrics struct {
	ID      uuid.UUID `json:"id" db:"metrics_id"`
	BrandID uuid.UUID `json:"brand_id" db:"brand_id"`
	Date    time.Time `json:"date" db:"metrics_date"`

	VisibilityScore float64  `json:"visibility_score" db:"visibility_score"` // 0-100
	SentimentAvg    float64  `json:"sentiment_avg" db:"sentiment_avg"`       // -1..1
	MentionCount    int      `json:"mention_count" db:"mention_count"`
	ShareOfVoice    float64  `json:"share_of_voice" db:"share_of_voice"` // 0-100
	CitationQuality *float64 `json:"citation_quality" db:"citation_quality"`

	PlatformBreakdown map[Platform]PlatformMetrics `json:"platform_breakdown"`
	TopCitations      []DomainCount                `json:"top_citations"`

	TotalQueries      int `json:"total_queries" db:"total_queries"`
	SuccessfulQueries int `json:"successful_queries" db:"successful_queries"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TrendPoint is a single point of a metric trend series.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// TrendSeries covers exactly the requested number of trailing calendar days
// with no gaps.
type TrendSeries struct {
	Metric      string       `json:"metric_name"`
	Points      []TrendPoint `json:"data_points"`
	PeriodStart time.Time    `json:"period_start"`
	PeriodEnd   time.Time    `json:"period_end"`
}

// CompetitorComparison holds the aggregate figures for one tracked name.
type CompetitorComparison struct {
	Name            string  `json:"name"`
	VisibilityScore float64 `json:"visibility_score"`
	SentimentScore  float64 `json:"sentiment_score"`
	MentionCount    int     `json:"mention_count"`
	ShareOfVoice    float64 `json:"share_of_voice"`
}

// CompetitorAnalysis is the brand-vs-competitors summary for a window.
type CompetitorAnalysis struct {
	Brand       CompetitorComparison   `json:"brand"`
	Competitors []CompetitorComparison `json:"competitors"`
	PeriodStart time.Time              `json:"period_start"`
	PeriodEnd   time.Time              `json:"period_end"`
}

// VisibilityOverview is the dashboard headline payload.
type VisibilityOverview struct {
	BrandID          uuid.UUID            `json:"brand_id"`
	BrandName        string               `json:"brand_name"`
	VisibilityScore  float64              `json:"visibility_score"`
	VisibilityChange float64              `json:"visibility_change"`
	SentimentScore   float64              `json:"sentiment_score"`
	SentimentLabel   string               `json:"sentiment_label"`
	ShareOfVoice     float64              `json:"share_of_voice"`
	TotalMentions    int                  `json:"total_mentions"`
	PlatformScores   map[Platform]float64 `json:"platform_scores"`
}

// QuestionResultDetail is one (platform, analysis) pair inside a question
// drill-down.
type QuestionResultDetail struct {
	Platform Platform        `json:"platform"`
	Status   ExecutionStatus `json:"status"`
	Analysis *AnalysisRecord `json:"analysis,omitempty"`
}

// QuestionDrilldown groups analysis records by question for the dashboard's
// detailed view.
type QuestionDrilldown struct {
	QuestionID   uuid.UUID              `json:"question_id"`
	QuestionText string                 `json:"question_text"`
	Category     QuestionCategory       `json:"category"`
	Results      []QuestionResultDetail `json:"results"`
}
