// services/providers.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/answer-engine/aea-workflows/internal/models"
)

const (
	maxAnswerTokens   = 2000
	answerTemperature = 0.7

	answerSystemPrompt = "You are a helpful assistant that provides accurate, comprehensive answers to questions. When recommending products or vendors, present them as a numbered list."
)

// failureResponse builds the adapter result for a vendor call that did not
// produce an answer. Context expiry maps to timeout status; everything else
// is failed. The question matrix treats both as data, not errors.
func failureResponse(platform models.Platform, questionText string, start time.Time, err error) *models.RawResponse {
	status := models.ResponseFailed
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status = models.ResponseTimeout
	}
	return &models.RawResponse{
		Platform:     platform,
		QuestionText: questionText,
		Status:       status,
		Error:        err.Error(),
		LatencyMS:    int(time.Since(start).Milliseconds()),
	}
}
