// services/cost_service.go
package services

import "github.com/answer-engine/aea-workflows/internal/models"

type costService struct{}

func NewCostService() CostService {
	return &costService{}
}

// Cost per 1M tokens
var costPerToken = map[string]struct{ input, output float64 }{
	"gpt-4.1":                  {input: 3.00, output: 12.00},
	"gpt-4.1-mini":             {input: 0.80, output: 3.20},
	"gpt-4o-2024-08-06":        {input: 2.50, output: 10.00},
	"claude-sonnet-4-20250514": {input: 3.00, output: 15.00},
	"sonar":                    {input: 1.00, output: 1.00},
	"sonar-pro":                {input: 3.00, output: 15.00},
	"gemini-1.5-pro":           {input: 1.25, output: 5.00},
	"gemini-1.5-flash":         {input: 0.075, output: 0.30},
}

// Fallback rates per platform when a model is missing from the table.
var platformDefaultModel = map[models.Platform]string{
	models.PlatformChatGPT:    "gpt-4.1",
	models.PlatformClaude:     "claude-sonnet-4-20250514",
	models.PlatformPerplexity: "sonar-pro",
	models.PlatformGemini:     "gemini-1.5-pro",
}

func (s *costService) CalculateCost(platform models.Platform, model string, inputTokens, outputTokens int) float64 {
	modelCosts, exists := costPerToken[model]
	if !exists {
		fallback := platformDefaultModel[platform]
		if fallback == "" {
			fallback = "gpt-4.1"
		}
		modelCosts = costPerToken[fallback]
	}

	inputCost := (float64(inputTokens) / 1_000_000.0) * modelCosts.input
	outputCost := (float64(outputTokens) / 1_000_000.0) * modelCosts.output
	return inputCost + outputCost
}
