// services/interfaces.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/jmoiron/sqlx"

	"github.com/answer-engine/aea-workflows/internal/models"
	"github.com/answer-engine/aea-workflows/internal/store"
)

// Repository interfaces. The store package provides the Postgres
// implementations; tests substitute in-memory fakes.

type BrandRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	ListActive(ctx context.Context) ([]*models.Brand, error)
}

type QuestionRepository interface {
	ListActiveByBrand(ctx context.Context, brandID uuid.UUID, limit int) ([]*models.Question, error)
	CreateBatch(ctx context.Context, questions []*models.Question) error
}

type ExecutionRepository interface {
	Create(ctx context.Context, exec *models.QueryExecution) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ExecutionStatus) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.QueryExecution, error)
}

type AnalysisRepository interface {
	Create(ctx context.Context, record *models.AnalysisRecord) error
	GetByExecutionID(ctx context.Context, executionID uuid.UUID) (*models.AnalysisRecord, error)
	ListByBrandWindow(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]models.AnalyzedExecution, error)
}

type MetricsRepository interface {
	Upsert(ctx context.Context, m *models.DailyMetrics) error
	GetByBrandDate(ctx context.Context, brandID uuid.UUID, date time.Time) (*models.DailyMetrics, error)
	ListRange(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]*models.DailyMetrics, error)
	Latest(ctx context.Context, brandID uuid.UUID) (*models.DailyMetrics, error)
}

// RepositoryManager manages all database repositories
type RepositoryManager struct {
	db            *store.Client
	BrandRepo     BrandRepository
	QuestionRepo  QuestionRepository
	ExecutionRepo ExecutionRepository
	AnalysisRepo  AnalysisRepository
	MetricsRepo   MetricsRepository
}

// NewRepositoryManager creates a new repository manager with all repositories
func NewRepositoryManager(db *store.Client) *RepositoryManager {
	return &RepositoryManager{
		db:            db,
		BrandRepo:     store.NewBrandRepo(db),
		QuestionRepo:  store.NewQuestionRepo(db),
		ExecutionRepo: store.NewExecutionRepo(db),
		AnalysisRepo:  store.NewAnalysisRepo(db),
		MetricsRepo:   store.NewMetricsRepo(db),
	}
}

// BeginTx starts a database transaction
func (rm *RepositoryManager) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return rm.db.DB.BeginTxx(ctx, nil)
}

// AIProvider is the per-platform adapter capability: send one question, get
// one raw response. Adapters never surface vendor errors as Go errors for
// ordinary failures; they return a RawResponse with status failed/timeout so
// the matrix keeps moving.
type AIProvider interface {
	GetPlatform() models.Platform
	SendQuery(ctx context.Context, questionText string) (*models.RawResponse, error)
}

// AnalysisService runs the analysis pipeline for one execution.
type AnalysisService interface {
	AnalyzeResponse(ctx context.Context, execution *models.QueryExecution, brand *models.Brand, raw *models.RawResponse) (*models.AnalysisRecord, error)
}

// MetricsService aggregates analysis records into dashboard figures.
type MetricsService interface {
	ComputeDailyMetrics(ctx context.Context, brandID uuid.UUID, day time.Time) (*models.DailyMetrics, error)
	GetOverview(ctx context.Context, brandID uuid.UUID) (*models.VisibilityOverview, error)
	GetTrends(ctx context.Context, brandID uuid.UUID, metric string, days int) (*models.TrendSeries, error)
	GetCompetitorAnalysis(ctx context.Context, brandID uuid.UUID, from, to time.Time) (*models.CompetitorAnalysis, error)
	GetQuestionDrilldowns(ctx context.Context, brandID uuid.UUID, from, to time.Time) ([]models.QuestionDrilldown, error)
}

// QuestionRunnerService drives the question x platform matrix for one brand.
type QuestionRunnerService interface {
	RunQuestionMatrix(ctx context.Context, brand *models.Brand) (*RunSummary, error)
	ProcessSingleQuestion(ctx context.Context, brand *models.Brand, question *models.Question, platform models.Platform) (*ExecutionResult, error)
}

// QuestionGeneratorService produces canned questions for a brand.
type QuestionGeneratorService interface {
	GenerateQuestions(ctx context.Context, brand *models.Brand, perCategory int) ([]*models.Question, error)
}

type CostService interface {
	CalculateCost(platform models.Platform, model string, inputTokens, outputTokens int) float64
}

// RunSummary reports one matrix run over a brand.
type RunSummary struct {
	BrandID             uuid.UUID `json:"brand_id"`
	BrandName           string    `json:"brand_name"`
	QuestionsProcessed  int       `json:"questions_processed"`
	ExecutionsCompleted int       `json:"executions_completed"`
	ExecutionsFailed    int       `json:"executions_failed"`
	TotalCost           float64   `json:"total_cost"`
	ProcessingErrors    []string  `json:"processing_errors,omitempty"`
}

// ExecutionResult is the outcome of one (question, platform) unit.
type ExecutionResult struct {
	ExecutionID    uuid.UUID              `json:"execution_id"`
	Platform       models.Platform        `json:"platform"`
	Status         models.ExecutionStatus `json:"status"`
	BrandMentioned bool                   `json:"brand_mentioned"`
	MentionCount   int                    `json:"mention_count"`
	Cost           float64                `json:"cost"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var zero T
	schema := reflector.Reflect(zero)

	// Convert to the format expected by OpenAI
	result := map[string]interface{}{
		"type":       "object",
		"properties": schema.Properties,
		"required":   schema.Required,
	}

	if schema.AdditionalProperties != nil {
		result["additionalProperties"] = false
	}

	return result
}
