// services/perplexity_provider.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
)

const (
	perplexityModel   = "sonar-pro"
	perplexityBaseURL = "https://api.perplexity.ai"
)

type perplexityProvider struct {
	client      *resty.Client
	model       string
	costService CostService
}

type perplexityRequest struct {
	Model       string              `json:"model"`
	Messages    []perplexityMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type perplexityMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	SearchResults []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"search_results"`
}

func NewPerplexityProvider(cfg *config.Config, costService CostService) AIProvider {
	client := resty.New().
		SetBaseURL(perplexityBaseURL).
		SetAuthToken(cfg.PerplexityAPIKey).
		SetTimeout(time.Duration(cfg.Analysis.QueryTimeoutSecs) * time.Second)

	return &perplexityProvider{
		client:      client,
		model:       perplexityModel,
		costService: costService,
	}
}

func (p *perplexityProvider) GetPlatform() models.Platform {
	return models.PlatformPerplexity
}

func (p *perplexityProvider) SendQuery(ctx context.Context, questionText string) (*models.RawResponse, error) {
	start := time.Now()

	var result perplexityResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(perplexityRequest{
			Model: p.model,
			Messages: []perplexityMessage{
				{Role: "system", Content: answerSystemPrompt},
				{Role: "user", Content: questionText},
			},
			Temperature: answerTemperature,
			MaxTokens:   maxAnswerTokens,
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return failureResponse(p.GetPlatform(), questionText, start, err), nil
	}
	if resp.IsError() {
		return failureResponse(p.GetPlatform(), questionText, start,
			fmt.Errorf("perplexity API returned status %d: %s", resp.StatusCode(), resp.String())), nil
	}
	if len(result.Choices) == 0 {
		return failureResponse(p.GetPlatform(), questionText, start, fmt.Errorf("no response choices returned")), nil
	}

	// Perplexity reports the sources it consulted; they seed citation
	// extraction alongside any URLs embedded in the answer text.
	hints := make([]models.CitationHint, 0, len(result.SearchResults))
	for _, sr := range result.SearchResults {
		if sr.URL == "" {
			continue
		}
		hints = append(hints, models.CitationHint{URL: sr.URL, Title: sr.Title})
	}

	return &models.RawResponse{
		Platform:      p.GetPlatform(),
		QuestionText:  questionText,
		ResponseText:  result.Choices[0].Message.Content,
		CitationHints: hints,
		InputTokens:   result.Usage.PromptTokens,
		OutputTokens:  result.Usage.CompletionTokens,
		Cost:          p.costService.CalculateCost(p.GetPlatform(), p.model, result.Usage.PromptTokens, result.Usage.CompletionTokens),
		LatencyMS:     int(time.Since(start).Milliseconds()),
		Status:        models.ResponseCompleted,
	}, nil
}
