// internal/store/analysis_repo.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/models"
)

type AnalysisRepo struct {
	db *Client
}

func NewAnalysisRepo(db *Client) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

type analysisRow struct {
	ID                   uuid.UUID      `db:"analysis_id"`
	ExecutionID          uuid.UUID      `db:"execution_id"`
	BrandMentioned       bool           `db:"brand_mentioned"`
	MentionCount         int            `db:"mention_count"`
	Position             sql.NullInt64  `db:"position"`
	TotalRecommendations int            `db:"total_recommendations"`
	SentimentLabel       string         `db:"sentiment_label"`
	SentimentScore       float64        `db:"sentiment_score"`
	MentionTypes         []byte         `db:"mention_type_breakdown"`
	CompetitorMentions   []byte         `db:"competitor_mentions"`
	Citations            []byte         `db:"citations"`
	ComparisonStats      []byte         `db:"comparison_stats"`
	AspectSentiments     []byte         `db:"aspect_sentiments"`
	DominantAspect       sql.NullString `db:"dominant_aspect"`
	AnalyzedAt           time.Time      `db:"analyzed_at"`
}

func (r analysisRow) toModel() (*models.AnalysisRecord, error) {
	record := &models.AnalysisRecord{
		ID:                   r.ID,
		ExecutionID:          r.ExecutionID,
		BrandMentioned:       r.BrandMentioned,
		MentionCount:         r.MentionCount,
		TotalRecommendations: r.TotalRecommendations,
		SentimentLabel:       r.SentimentLabel,
		SentimentScore:       r.SentimentScore,
		AnalyzedAt:           r.AnalyzedAt,
	}
	if r.Position.Valid {
		p := int(r.Position.Int64)
		record.Position = &p
	}
	if r.DominantAspect.Valid {
		d := r.DominantAspect.String
		record.DominantAspect = &d
	}
	for _, pair := range []struct {
		raw  []byte
		dest interface{}
	}{
		{r.MentionTypes, &record.MentionTypes},
		{r.CompetitorMentions, &record.CompetitorMentions},
		{r.Citations, &record.Citations},
		{r.ComparisonStats, &record.ComparisonStats},
		{r.AspectSentiments, &record.AspectSentiments},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
				return nil, fmt.Errorf("failed to decode analysis column: %w", err)
			}
		}
	}
	return record, nil
}

// Create inserts one immutable analysis record. Records are append-only; a
// second insert for the same execution fails on the unique constraint.
func (r *AnalysisRepo) Create(ctx context.Context, record *models.AnalysisRecord) error {
	mentionTypes, err := json.Marshal(record.MentionTypes)
	if err != nil {
		return fmt.Errorf("failed to encode mention types: %w", err)
	}
	competitorMentions, err := json.Marshal(record.CompetitorMentions)
	if err != nil {
		return fmt.Errorf("failed to encode competitor mentions: %w", err)
	}
	citations, err := json.Marshal(record.Citations)
	if err != nil {
		return fmt.Errorf("failed to encode citations: %w", err)
	}
	comparisonStats, err := json.Marshal(record.ComparisonStats)
	if err != nil {
		return fmt.Errorf("failed to encode comparison stats: %w", err)
	}
	aspectSentiments, err := json.Marshal(record.AspectSentiments)
	if err != nil {
		return fmt.Errorf("failed to encode aspect sentiments: %w", err)
	}

	_, err = r.db.DB.ExecContext(ctx, `
		INSERT INTO analysis_results
			(analysis_id, execution_id, brand_mentioned, mention_count, position, total_recommendations,
			 sentiment_label, sentiment_score, mention_type_breakdown, competitor_mentions, citations,
			 comparison_stats, aspect_sentiments, dominant_aspect, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		record.ID, record.ExecutionID, record.BrandMentioned, record.MentionCount,
		record.Position, record.TotalRecommendations, record.SentimentLabel, record.SentimentScore,
		mentionTypes, competitorMentions, citations, comparisonStats, aspectSentiments,
		record.DominantAspect, record.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("failed to create analysis record: %w", err)
	}
	return nil
}

func (r *AnalysisRepo) GetByExecutionID(ctx context.Context, executionID uuid.UUID) (*models.AnalysisRecord, error) {
	var row analysisRow
	err := r.db.DB.GetContext(ctx, &row, `
		SELECT analysis_id, execution_id, brand_mentioned, mention_count, position, total_recommendations,
		       sentiment_label, sentiment_score, mention_type_breakdown, competitor_mentions, citations,
		       comparison_stats, aspect_sentiments, dominant_aspect, analyzed_at
		FROM analysis_results WHERE execution_id = $1`, executionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis record: %w", err)
	}
	return row.toModel()
}

// ListByBrandWindow returns every execution for a brand in [from, to) joined
// with its question and analysis record, ordered by execution time then
// execution id so repeated reads over an unchanged set are byte-identical.
func (r *AnalysisRepo) ListByBrandWindow(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]models.AnalyzedExecution, error) {
	type joinedRow struct {
		ExecID       uuid.UUID `db:"execution_id"`
		QuestionID   uuid.UUID `db:"question_id"`
		BrandID      uuid.UUID `db:"brand_id"`
		Platform     string    `db:"platform"`
		ResponseText string    `db:"response_text"`
		ExecStatus   string    `db:"status"`
		LatencyMS    int       `db:"latency_ms"`
		InputTokens  int       `db:"input_tokens"`
		OutputTokens int       `db:"output_tokens"`
		TotalCost    float64   `db:"total_cost"`
		ExecutedAt   time.Time `db:"executed_at"`

		QuestionText string    `db:"question_text"`
		Category     string    `db:"category"`
		QIsActive    bool      `db:"q_is_active"`
		QCreatedAt   time.Time `db:"q_created_at"`

		AnalysisID           sql.NullString  `db:"analysis_id"`
		BrandMentioned       sql.NullBool    `db:"brand_mentioned"`
		MentionCount         sql.NullInt64   `db:"mention_count"`
		Position             sql.NullInt64   `db:"position"`
		TotalRecommendations sql.NullInt64   `db:"total_recommendations"`
		SentimentLabel       sql.NullString  `db:"sentiment_label"`
		SentimentScore       sql.NullFloat64 `db:"sentiment_score"`
		MentionTypes         []byte          `db:"mention_type_breakdown"`
		CompetitorMentions   []byte          `db:"competitor_mentions"`
		Citations            []byte          `db:"citations"`
		ComparisonStats      []byte          `db:"comparison_stats"`
		AspectSentiments     []byte          `db:"aspect_sentiments"`
		DominantAspect       sql.NullString  `db:"dominant_aspect"`
		AnalyzedAt           sql.NullTime    `db:"analyzed_at"`
	}

	var rows []joinedRow
	err := r.db.DB.SelectContext(ctx, &rows, `
		SELECT e.execution_id, e.question_id, e.brand_id, e.platform, e.response_text, e.status,
		       e.latency_ms, e.input_tokens, e.output_tokens, e.total_cost, e.executed_at,
		       q.question_text, q.category, q.is_active AS q_is_active, q.created_at AS q_created_at,
		       a.analysis_id, a.brand_mentioned, a.mention_count, a.position, a.total_recommendations,
		       a.sentiment_label, a.sentiment_score, a.mention_type_breakdown, a.competitor_mentions,
		       a.citations, a.comparison_stats, a.aspect_sentiments, a.dominant_aspect, a.analyzed_at
		FROM query_executions e
		JOIN questions q ON q.question_id = e.question_id
		LEFT JOIN analysis_results a ON a.execution_id = e.execution_id
		WHERE e.brand_id = $1 AND e.executed_at >= $2 AND e.executed_at < $3
		ORDER BY e.executed_at, e.execution_id`, brandID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyzed executions: %w", err)
	}

	out := make([]models.AnalyzedExecution, 0, len(rows))
	for _, row := range rows {
		item := models.AnalyzedExecution{
			Execution: models.QueryExecution{
				ID:           row.ExecID,
				QuestionID:   row.QuestionID,
				BrandID:      row.BrandID,
				Platform:     models.Platform(row.Platform),
				ResponseText: row.ResponseText,
				Status:       models.ExecutionStatus(row.ExecStatus),
				LatencyMS:    row.LatencyMS,
				InputTokens:  row.InputTokens,
				OutputTokens: row.OutputTokens,
				TotalCost:    row.TotalCost,
				ExecutedAt:   row.ExecutedAt,
			},
			Question: models.Question{
				ID:        row.QuestionID,
				BrandID:   row.BrandID,
				Text:      row.QuestionText,
				Category:  models.QuestionCategory(row.Category),
				IsActive:  row.QIsActive,
				CreatedAt: row.QCreatedAt,
			},
		}
		if row.AnalysisID.Valid {
			id, err := uuid.Parse(row.AnalysisID.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse analysis id: %w", err)
			}
			ar := analysisRow{
				ID:                   id,
				ExecutionID:          row.ExecID,
				BrandMentioned:       row.BrandMentioned.Bool,
				MentionCount:         int(row.MentionCount.Int64),
				Position:             row.Position,
				TotalRecommendations: int(row.TotalRecommendations.Int64),
				SentimentLabel:       row.SentimentLabel.String,
				SentimentScore:       row.SentimentScore.Float64,
				MentionTypes:         row.MentionTypes,
				CompetitorMentions:   row.CompetitorMentions,
				Citations:            row.Citations,
				ComparisonStats:      row.ComparisonStats,
				AspectSentiments:     row.AspectSentiments,
				DominantAspect:       row.DominantAspect,
				AnalyzedAt:           row.AnalyzedAt.Time,
			}
			record, err := ar.toModel()
			if err != nil {
				return nil, err
			}
			item.Analysis = record
		}
		out = append(out, item)
	}
	return out, nil
}
