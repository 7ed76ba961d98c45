// internal/store/execution_repo.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/models"
)

type ExecutionRepo struct {
	db *Client
}

func NewExecutionRepo(db *Client) *ExecutionRepo {
	return &ExecutionRepo{db: db}
}

func (r *ExecutionRepo) Create(ctx context.Context, exec *models.QueryExecution) error {
	_, err := r.db.DB.ExecContext(ctx, `
		INSERT INTO query_executions
			(execution_id, question_id, brand_id, platform, response_text, status, latency_ms, input_tokens, output_tokens, total_cost, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		exec.ID, exec.QuestionID, exec.BrandID, exec.Platform, exec.ResponseText,
		exec.Status, exec.LatencyMS, exec.InputTokens, exec.OutputTokens, exec.TotalCost, exec.ExecutedAt)
	if err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}
	return nil
}

func (r *ExecutionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ExecutionStatus) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE query_executions SET status = $2 WHERE execution_id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update execution status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.QueryExecution, error) {
	var exec models.QueryExecution
	err := r.db.DB.GetContext(ctx, &exec, `
		SELECT execution_id, question_id, brand_id, platform, response_text, status, latency_ms, input_tokens, output_tokens, total_cost, executed_at
		FROM query_executions WHERE execution_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return &exec, nil
}

func (r *ExecutionRepo) ListByBrandWindow(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]*models.QueryExecution, error) {
	var execs []*models.QueryExecution
	err := r.db.DB.SelectContext(ctx, &execs, `
		SELECT execution_id, question_id, brand_id, platform, response_text, status, latency_ms, input_tokens, output_tokens, total_cost, executed_at
		FROM query_executions
		WHERE brand_id = $1 AND executed_at >= $2 AND executed_at < $3
		ORDER BY executed_at`, brandID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	return execs, nil
}
