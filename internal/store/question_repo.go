// internal/store/question_repo.go
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/models"
)

type QuestionRepo struct {
	db *Client
}

func NewQuestionRepo(db *Client) *QuestionRepo {
	return &QuestionRepo{db: db}
}

func (r *QuestionRepo) ListActiveByBrand(ctx context.Context, brandID uuid.UUID, limit int) ([]*models.Question, error) {
	query := `
		SELECT question_id, brand_id, question_text, category, is_active, created_at
		FROM questions
		WHERE brand_id = $1 AND is_active = TRUE
		ORDER BY created_at`
	args := []interface{}{brandID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	var questions []*models.Question
	if err := r.db.DB.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list active questions: %w", err)
	}
	return questions, nil
}

func (r *QuestionRepo) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range questions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO questions (question_id, brand_id, question_text, category, is_active, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW())`,
			q.ID, q.BrandID, q.Text, q.Category, q.IsActive); err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}
	return tx.Commit()
}
