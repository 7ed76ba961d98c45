// services/gemini_provider.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/answer-engine/aea-workflows/internal/config"
	"github.com/answer-engine/aea-workflows/internal/models"
)

const (
	geminiModel   = "gemini-1.5-pro"
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

type geminiProvider struct {
	client      *resty.Client
	model       string
	costService CostService
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
}

func NewGeminiProvider(cfg *config.Config, costService CostService) AIProvider {
	client := resty.New().
		SetBaseURL(geminiBaseURL).
		SetQueryParam("key", cfg.GoogleAIAPIKey).
		SetTimeout(time.Duration(cfg.Analysis.QueryTimeoutSecs) * time.Second)

	return &geminiProvider{
		client:      client,
		model:       geminiModel,
		costService: costService,
	}
}

func (p *geminiProvider) GetPlatform() models.Platform {
	return models.PlatformGemini
}

func (p *geminiProvider) SendQuery(ctx context.Context, questionText string) (*models.RawResponse, error) {
	start := time.Now()

	var result geminiResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(geminiRequest{
			SystemInstruction: &geminiContent{
				Parts: []geminiPart{{Text: answerSystemPrompt}},
			},
			Contents: []geminiContent{{
				Role:  "user",
				Parts: []geminiPart{{Text: questionText}},
			}},
			GenerationConfig: geminiGenConfig{
				Temperature:     answerTemperature,
				MaxOutputTokens: maxAnswerTokens,
			},
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", p.model))
	if err != nil {
		return failureResponse(p.GetPlatform(), questionText, start, err), nil
	}
	if resp.IsError() {
		return failureResponse(p.GetPlatform(), questionText, start,
			fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode(), resp.String())), nil
	}
	if len(result.Candidates) == 0 {
		return failureResponse(p.GetPlatform(), questionText, start, fmt.Errorf("no candidates returned")), nil
	}

	var parts []string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	responseText := strings.Join(parts, "")
	if responseText == "" {
		return failureResponse(p.GetPlatform(), questionText, start, fmt.Errorf("no text content in candidate")), nil
	}

	inputTokens := result.UsageMetadata.PromptTokenCount
	outputTokens := result.UsageMetadata.CandidatesTokenCount

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
