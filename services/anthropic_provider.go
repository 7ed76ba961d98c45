// services/anthropic_provider.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
)

const anthropicModel = "claude-sonnet-4-20250514"

type anthropicProvider struct {
	client      *anthropic.Client
	model       string
	costService CostService
}

func NewAnthropicProvider(cfg *config.Config, costService CostService) AIProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AnthropicAPIKey),
	)

	return &anthropicProvider{
		client:      &client,
		model:       anthropicModel,
		costService: costService,
	}
}

func (p *anthropicProvider) GetPlatform() models.Platform {
	return models.PlatformClaude
}

func (p *anthropicProvider) SendQuery(ctx context.Context, questionText string) (*models.RawResponse, error) {
	start := time.Now()

	messages := []anthropic.MessageParam{{
		Content: []anthropic.ContentBlockParamUnion{{
			OfText: &anthropic.TextBlockParam{Text: questionText},
		}},
		Role: anthropic.MessageParamRoleUser,
	}}

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   maxAnswerTokens,
		System:      []anthropic.TextBlockParam{{Text: answerSystemPrompt}},
		Messages:    messages,
		Temperature: anthropic.Float(answerTemperature),
	})
	if err != nil {
		return failureResponse(p.GetPlatform(), questionText, start, err), nil
	}

	responseText := p.extractResponseText(*response)
	if responseText == "" {
		return failureResponse(p.GetPlatform(), questionText, start, fmt.Errorf("no text content in response")), nil
	}

	inputTokens := int(response.Usage.InputTokens)
	outputTokens := int(response.Usage.OutputTokens)

	return &models.RawResponse{
		Platform:     p.GetPlatform(),
		QuestionText: questionText,
		ResponseText: responseText,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         p.costService.CalculateCost(p.GetPlatform(), p.model, inputTokens, outputTokens),
		LatencyMS:    int(time.Since(start).Milliseconds()),
		Status:       models.ResponseCompleted,
	}, nil
}

func (p *anthropicProvider) extractResponseText(response anthropic.Message) string {
	var textParts []string

	for _, block := range response.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			textParts = append(textParts, variant.Text)
		}
	}

	return strings.Join(textParts, "")
}
