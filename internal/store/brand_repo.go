// internal/store/brand_repo.go
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

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type BrandRepo struct {
	db *Client
}

func NewBrandRepo(db *Client) *BrandRepo {
	return &BrandRepo{db: db}
}

type brandRow struct {
	ID          uuid.UUID `db:"brand_id"`
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Domain      string    `db:"domain"`
	Keywords    []byte    `db:"keywords"`
	Competitors []byte    `db:"competitors"`
	Products    []byte    `db:"products"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r brandRow) toModel() (*models.Brand, error) {
	brand := &models.Brand{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Domain:    r.Domain,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, pair := range []struct {
		raw  []byte
		dest *[]string
	}{
		{r.Keywords, &brand.Keywords},
		{r.Competitors, &brand.Competitors},
		{r.Products, &brand.Products},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
				return nil, fmt.Errorf("failed to decode brand list column: %w", err)
			}
		}
	}
	return brand, nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var row brandRow
	err := r.db.DB.GetContext(ctx, &row, `
		SELECT brand_id, user_id, name, domain, keywords, competitors, products, is_active, created_at, updated_at
		FROM brands WHERE brand_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return row.toModel()
}

func (r *BrandRepo) ListActive(ctx context.Context) ([]*models.Brand, error) {
	var rows []brandRow
	err := r.db.DB.SelectContext(ctx, &rows, `
		SELECT brand_id, user_id, name, domain, keywords, competitors, products, is_active, created_at, updated_at
		FROM brands WHERE is_active = TRUE ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active brands: %w", err)
	}
	brands := make([]*models.Brand, 0, len(rows))
	for _, row := range rows {
		brand, err := row.toModel()
		if err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}
	return brands, nil
}

