// internal/store/metrics_repo.go
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

type MetricsRepo struct {
	db *Client
}

func NewMetricsRepo(db *Client) *MetricsRepo {
	return &MetricsRepo{db: db}
}

type metricsRow struct {
	ID                uuid.UUID       `db:"metrics_id"`
	BrandID           uuid.UUID       `db:"brand_id"`
	Date              time.Time       `db:"metrics_date"`
	VisibilityScore   float64         `db:"visibility_score"`
	SentimentAvg      float64         `db:"sentiment_avg"`
	MentionCount      int             `db:"mention_count"`
	ShareOfVoice      float64         `db:"share_of_voice"`
	CitationQuality   sql.NullFloat64 `db:"citation_quality"`
	PlatformBreakdown []byte          `db:"platform_breakdown"`
	TopCitations      []byte          `db:"top_citations"`
	TotalQueries      int             `db:"total_queries"`
	SuccessfulQueries int             `db:"successful_queries"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (r metricsRow) toModel() (*models.DailyMetrics, error) {
	m := &models.DailyMetrics{
		ID:                r.ID,
		BrandID:           r.BrandID,
		Date:              r.Date,
		VisibilityScore:   r.VisibilityScore,
		SentimentAvg:      r.SentimentAvg,
		MentionCount:      r.MentionCount,
		ShareOfVoice:      r.ShareOfVoice,
		TotalQueries:      r.TotalQueries,
		SuccessfulQueries: r.SuccessfulQueries,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.CitationQuality.Valid {
		q := r.CitationQuality.Float64
		m.CitationQuality = &q
	}
	if len(r.PlatformBreakdown) > 0 {
		if err := json.Unmarshal(r.PlatformBreakdown, &m.PlatformBreakdown); err != nil {
			return nil, fmt.Errorf("failed to decode platform breakdown: %w", err)
		}
	}
	if len(r.TopCitations) > 0 {
		if err := json.Unmarshal(r.TopCitations, &m.TopCitations); err != nil {
			return nil, fmt.Errorf("failed to decode top citations: %w", err)
		}
	}
	return m, nil
}

// Upsert writes one (brand, day) metrics row, replacing any existing one.
// Daily metrics are a materialized view of analysis records and carry no
// state of their own.
func (r *MetricsRepo) Upsert(ctx context.Context, m *models.DailyMetrics) error {
	breakdown, err := json.Marshal(m.PlatformBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode platform breakdown: %w", err)
	}
	topCitations, err := json.Marshal(m.TopCitations)
	if err != nil {
		return fmt.Errorf("failed to encode top citations: %w", err)
	}

	_, err = r.db.DB.ExecContext(ctx, `
		INSERT INTO daily_metrics
			(metrics_id, brand_id, metrics_date, visibility_score, sentiment_avg, mention_count,
			 share_of_voice, citation_quality, platform_breakdown, top_citations,
			 total_queries, successful_queries, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (brand_id, metrics_date) DO UPDATE SET
			visibility_score   = EXCLUDED.visibility_score,
			sentiment_avg      = EXCLUDED.sentiment_avg,
			mention_count      = EXCLUDED.mention_count,
			share_of_voice     = EXCLUDED.share_of_voice,
			citation_quality   = EXCLUDED.citation_quality,
			platform_breakdown = EXCLUDED.platform_breakdown,
			top_citations      = EXCLUDED.top_citations,
			total_queries      = EXCLUDED.total_queries,
			successful_queries = EXCLUDED.successful_queries,
			updated_at         = NOW()`,
		m.ID, m.BrandID, m.Date, m.VisibilityScore, m.SentimentAvg, m.MentionCount,
		m.ShareOfVoice, m.CitationQuality, breakdown, topCitations,
		m.TotalQueries, m.SuccessfulQueries)
	if err != nil {
		return fmt.Errorf("failed to upsert daily metrics: %w", err)
	}
	return nil
}

func (r *MetricsRepo) GetByBrandDate(ctx context.Context, brandID uuid.UUID, date time.Time) (*models.DailyMetrics, error) {
	var row metricsRow
	err := r.db.DB.GetContext(ctx, &row, `
		SELECT metrics_id, brand_id, metrics_date, visibility_score, sentiment_avg, mention_count,
		       share_of_voice, citation_quality, platform_breakdown, top_citations,
		       total_queries, successful_queries, created_at, updated_at
		FROM daily_metrics WHERE brand_id = $1 AND metrics_date = $2`, brandID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily metrics: %w", err)
	}
	return row.toModel()
}

// ListRange returns rows in [from, to] ordered by date ascending. Days with
// no row are absent; callers fill gaps.
func (r *MetricsRepo) ListRange(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]*models.DailyMetrics, error) {
	var rows []metricsRow
	err := r.db.DB.SelectContext(ctx, &rows, `
		SELECT metrics_id, brand_id, metrics_date, visibility_score, sentiment_avg, mention_count,
		       share_of_voice, citation_quality, platform_breakdown, top_citations,
		       total_queries, successful_queries, created_at, updated_at
		FROM daily_metrics
		WHERE brand_id = $1 AND metrics_date >= $2 AND metrics_date <= $3
		ORDER BY metrics_date`, brandID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily metrics: %w", err)
	}
	out := make([]*models.DailyMetrics, 0, len(rows))
	for _, row := range rows {
		m, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Latest returns the most recent metrics row for a brand.
func (r *MetricsRepo) Latest(ctx context.Context, brandID uuid.UUID) (*models.DailyMetrics, error) {
	var row metricsRow
	err := r.db.DB.GetContext(ctx, &row, `
		SELECT metrics_id, brand_id, metrics_date, visibility_score, sentiment_avg, mention_count,
		       share_of_voice, citation_quality, platform_breakdown, top_citations,
		       total_queries, successful_queries, created_at, updated_at
		FROM daily_metrics WHERE brand_id = $1
		ORDER BY metrics_date DESC LIMIT 1`, brandID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest metrics: %w", err)
	}
	return row.toModel()
}
