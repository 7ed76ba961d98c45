// services/question_generator_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
)

type questionGeneratorService struct {
	client *openai.Client
	model  string
	repos  *RepositoryManager
}

func NewQuestionGeneratorService(cfg *config.Config, repos *RepositoryManager) QuestionGeneratorService {
	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
	)
	return &questionGeneratorService{
		client: &client,
		model:  openAIModel,
		repos:  repos,
	}
}

// GeneratedQuestionSet is the structured output for question generation
type GeneratedQuestionSet struct {
	Questions []GeneratedQuestion `json:"questions" jsonschema_description:"Generated search questions"`
}

type GeneratedQuestion struct {
	Text     string `json:"text" jsonschema_description:"The question a potential customer would type into an AI assistant"`
	Category string `json:"category" jsonschema:"enum=discovery,enum=comparison,enum=evaluation,enum=feature,enum=problem-solving,enum=industry,enum=pricing" jsonschema_description:"Buyer intent category of the question"`
}

var generatedQuestionSetSchema = GenerateSchema[GeneratedQuestionSet]()

// GenerateQuestions asks OpenAI for perCategory realistic buyer questions in
// each category, persists them as active questions, and returns them.
func (s *questionGeneratorService) GenerateQuestions(ctx context.Context, brand *models.Brand, perCategory int) ([]*models.Question, error) {
	fmt.Printf("[GenerateQuestions] Generating %d questions per category for brand %s\n", perCategory, brand.Name)

	prompt := s.buildPrompt(brand, perCategory)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "question_generation",
		Description: openai.String("Realistic search questions potential customers would ask AI assistants"),
		Schema:      generatedQuestionSetSchema,
		Strict:      openai.Bool(true),
	}

	response, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are an expert at understanding how real users search for products and services using AI assistants."),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(s.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Temperature: openai.Float(0.85), // high for question diversity
		MaxTokens:   openai.Int(4000),
	})
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	var set GeneratedQuestionSet
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &set); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}

	questions := make([]*models.Question, 0, len(set.Questions))
	for _, generated := range set.Questions {
		category := models.QuestionCategory(generated.Category)
		text := strings.TrimSpace(generated.Text)
		if text == "" {
			continue
		}
		questions = append(questions, &models.Question{
			ID:        uuid.New(),
			BrandID:   brand.ID,
			Text:      text,
			Category:  category,
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		})
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no usable questions")
	}

	if err := s.repos.QuestionRepo.CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("failed to store generated questions: %w", err)
	}

	fmt.Printf("[GenerateQuestions] Stored %d questions for brand %s\n", len(questions), brand.Name)
	return questions, nil
}

func (s *questionGeneratorService) buildPrompt(brand *models.Brand, perCategory int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d realistic search questions in EACH of these categories: discovery, comparison, evaluation, feature, problem-solving, industry, pricing.\n\n", perCategory)
	fmt.Fprintf(&b, "Company: %s (%s)\n", brand.Name, brand.Domain)
	if len(brand.Products) > 0 {
		fmt.Fprintf(&b, "Products: %s\n", strings.Join(brand.Products, ", "))
	}
	if len(brand.Keywords) > 0 {
		fmt.Fprintf(&b, "Also known as: %s\n", strings.Join(brand.Keywords, ", "))
	}
	if len(brand.Competitors) > 0 {
		fmt.Fprintf(&b, "Competitors: %s\n", strings.Join(brand.Competitors, ", "))
	}

	b.WriteString(`
Rules:
- Discovery questions are generic category searches written BEFORE knowing the brand; do not name the company in them.
- Comparison questions name the company against one or more of its competitors.
- Write questions the way a real buyer types them into ChatGPT or Perplexity, not like marketing copy.
- Each question must be self-contained and answerable without further context.`)

	return b.String()
}
