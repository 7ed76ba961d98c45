// services/mocks_test.go
package services_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/internal/store"
	"github.com/answer-engine/aea-workflows/services"
)

type fakeBrandRepo struct {
	brands map[uuid.UUID]*models.Brand
}

func (f *fakeBrandRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Brand, error) {
	brand, ok := f.brands[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return brand, nil
}

func (f *fakeBrandRepo) ListActive(_ context.Context) ([]*models.Brand, error) {
	var out []*models.Brand
	for _, brand := range f.brands {
		if brand.IsActive {
			out = append(out, brand)
		}
	}
	return out, nil
}

type fakeQuestionRepo struct {
	questions []*models.Question
}

func (f *fakeQuestionRepo) ListActiveByBrand(_ context.Context, brandID uuid.UUID, limit int) ([]*models.Question, error) {
	var out []*models.Question
	for _, q := range f.questions {
		if q.BrandID == brandID && q.IsActive {
			out = append(out, q)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) CreateBatch(_ context.Context, questions []*models.Question) error {
	f.questions = append(f.questions, questions...)
	return nil
}

type fakeExecutionRepo struct {
	executions map[uuid.UUID]*models.QueryExecution
	statusLog  map[uuid.UUID][]models.ExecutionStatus
}

func newFakeExecutionRepo() *fakeExecutionRepo {
	return &fakeExecutionRepo{
		executions: map[uuid.UUID]*models.QueryExecution{},
		statusLog:  map[uuid.UUID][]models.ExecutionStatus{},
	}
}

func (f *fakeExecutionRepo) Create(_ context.Context, exec *models.QueryExecution) error {
	f.executions[exec.ID] = exec
	return nil
}

func (f *fakeExecutionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ExecutionStatus) error {
	exec, ok := f.executions[id]
	if !ok {
		return store.ErrNotFound
	}
	exec.Status = status
	f.statusLog[id] = append(f.statusLog[id], status)
	return nil
}

func (f *fakeExecutionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.QueryExecution, error) {
	exec, ok := f.executions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return exec, nil
}

type fakeAnalysisRepo struct {
	created []*models.AnalysisRecord
	rows    []models.AnalyzedExecution
}

func (f *fakeAnalysisRepo) Create(_ context.Context, record *models.AnalysisRecord) error {
	f.created = append(f.created, record)
	return nil
}

func (f *fakeAnalysisRepo) GetByExecutionID(_ context.Context, executionID uuid.UUID) (*models.AnalysisRecord, error) {
	for _, record := range f.created {
		if record.ExecutionID == executionID {
			return record, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAnalysisRepo) ListByBrandWindow(_ context.Context, brandID uuid.UUID, from, to time.Time) ([]models.AnalyzedExecution, error) {
	var out []models.AnalyzedExecution
	for _, row := range f.rows {
		at := row.Execution.ExecutedAt
		if row.Execution.BrandID == brandID && !at.Before(from) && at.Before(to) {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeMetricsRepo struct {
	rows map[string]*models.DailyMetrics
}

func newFakeMetricsRepo() *fakeMetricsRepo {
	return &fakeMetricsRepo{rows: map[string]*models.DailyMetrics{}}
}

func metricsKey(brandID uuid.UUID, date time.Time) string {
	return brandID.String() + "/" + date.Format("2006-01-02")
}

func (f *fakeMetricsRepo) Upsert(_ context.Context, m *models.DailyMetrics) error {
	stored := *m
	f.rows[metricsKey(m.BrandID, m.Date)] = &stored
	return nil
}

func (f *fakeMetricsRepo) GetByBrandDate(_ context.Context, brandID uuid.UUID, date time.Time) (*models.DailyMetrics, error) {
	row, ok := f.rows[metricsKey(brandID, date)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return row, nil
}

func (f *fakeMetricsRepo) ListRange(_ context.Context, brandID uuid.UUID, from, to time.Time) ([]*models.DailyMetrics, error) {
	var out []*models.DailyMetrics
	for _, row := range f.rows {
		if row.BrandID == brandID && !row.Date.Before(from) && !row.Date.After(to) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeMetricsRepo) Latest(_ context.Context, brandID uuid.UUID) (*models.DailyMetrics, error) {
	var latest *models.DailyMetrics
	for _, row := range f.rows {
		if row.BrandID != brandID {
			continue
		}
		if latest == nil || row.Date.After(latest.Date) {
			latest = row
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}

type fixture struct {
	repos      *services.RepositoryManager
	brands     *fakeBrandRepo
	questions  *fakeQuestionRepo
	executions *fakeExecutionRepo
	analyses   *fakeAnalysisRepo
	metrics    *fakeMetricsRepo
}

func newFixture() *fixture {
	f := &fixture{
		brands:     &fakeBrandRepo{brands: map[uuid.UUID]*models.Brand{}},
		questions:  &fakeQuestionRepo{},
		executions: newFakeExecutionRepo(),
		analyses:   &fakeAnalysisRepo{},
		metrics:    newFakeMetricsRepo(),
	}
	f.repos = &services.RepositoryManager{
		BrandRepo:     f.brands,
		QuestionRepo:  f.questions,
		ExecutionRepo: f.executions,
		AnalysisRepo:  f.analyses,
		MetricsRepo:   f.metrics,
	}
	return f
}
