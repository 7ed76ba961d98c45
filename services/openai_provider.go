// services/openai_provider.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
)

const openAIModel = "gpt-4.1"

type openAIProvider struct {
	client      *openai.Client
	model       string
	costService CostService
}

func NewOpenAIProvider(cfg *config.Config, costService CostService) AIProvider {
	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
	)

	fmt.Printf("[NewOpenAIProvider] Using model %s via api.openai.com\n", openAIModel)

	return &openAIProvider{
		client:      &client,
		model:       openAIModel,
		costService: costService,
	}
}

func (p *openAIProvider) GetPlatform() models.Platform {
	return models.PlatformChatGPT
}

func (p *openAIProvider) SendQuery(ctx context.Context, questionText string) (*models.RawResponse, error) {
	start := time.Now()

	response, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(answerSystemPrompt),
			openai.UserMessage(questionText),
		},
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(answerTemperature),
		MaxTokens:   openai.Int(maxAnswerTokens),
	})
	if err != nil {
		return failureResponse(p.GetPlatform(), questionText, start, err), nil
	}
	if len(response.Choices) == 0 {
		return failureResponse(p.GetPlatform(), questionText, start, fmt.Errorf("no response choices returned")), nil
	}

	inputTokens := int(response.Usage.PromptTokens)
	outputTokens := int(response.Usage.CompletionTokens)

	return &models.RawResponse{
		Platform:     p.GetPlatform(),
		QuestionText: questionText,
		ResponseText: response.Choices[0].Message.Content,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         p.costService.CalculateCost(p.GetPlatform(), p.model, inputTokens, outputTokens),
		LatencyMS:    int(time.Since(start).Milliseconds()),
		Status:       models.ResponseCompleted,
	}, nil
}
