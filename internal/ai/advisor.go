package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// RiskAssessment is the advisory output attached to a handover. It is stored
// verbatim; nothing downstream recomputes or second-guesses it.
type RiskAssessment struct {
	RiskLevel      string `json:"risk_level"` // low, medium, high, critical
	Recommendation string `json:"recommendation"`
	Reasoning      string `json:"reasoning,omitempty"`
}

// HandoverContext is the summarized input fed to the model.
type HandoverContext struct {
	Handover  models.Handover
	Tasks     []models.Task
	Documents []string // extracted document text snippets
}

// Advisor produces risk assessments for handovers via chat completion.
type Advisor struct {
	client *openai.Client
	model  string
	temp   float32
	logger *zap.Logger
}

// NewAdvisor creates a new risk advisor
func NewAdvisor(apiKey, model string, temperature float32, logger *zap.Logger) *Advisor {
	return &Advisor{
		client: openai.NewClient(apiKey),
		model:  model,
		temp:   temperature,
		logger: logger,
	}
}

// Assess asks the model for a risk level and recommendation for the given
// handover context.
func (a *Advisor) Assess(ctx context.Context, hc HandoverContext) (*RiskAssessment, error) {
	prompt := buildAssessmentPrompt(hc)

	a.logger.Debug("Sending risk assessment request",
		zap.String("handover_id", hc.Handover.ID),
		zap.Int("task_count", len(hc.Tasks)))

	// Rely on prompt engineering for JSON output; the response_format field
	// breaks on some models.
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temp,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		a.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var result RiskAssessment
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Fallback: extract the first JSON object from a chatty response.
		if extracted, ok := extractJSON(content); ok {
			if err := json.Unmarshal([]byte(extracted), &result); err == nil {
				return a.validated(&result, hc.Handover.ID)
			}
		}
		a.logger.Error("Failed to parse OpenAI response",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return a.validated(&result, hc.Handover.ID)
}

func (a *Advisor) validated(result *RiskAssessment, handoverID string) (*RiskAssessment, error) {
	switch result.RiskLevel {
	case models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh, models.RiskLevelCritical:
	default:
		a.logger.Warn("Unexpected risk level, defaulting to medium",
			zap.String("handover_id", handoverID),
			zap.String("risk_level", result.RiskLevel))
		result.RiskLevel = models.RiskLevelMedium
	}

	a.logger.Info("Risk assessment completed",
		zap.String("handover_id", handoverID),
		zap.String("risk_level", result.RiskLevel))
	return result, nil
}

// extractJSON returns the first balanced top-level JSON object in content.
func extractJSON(content string) (string, bool) {
	start := -1
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	braceCount := 0
	inString := false
	escapeNext := false
	for i := start; i < len(content); i++ {
		char := content[i]
		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if char == '{' {
			braceCount++
		} else if char == '}' {
			braceCount--
			if braceCount == 0 {
				return content[start : i+1], true
			}
		}
	}
	return "", false
}
