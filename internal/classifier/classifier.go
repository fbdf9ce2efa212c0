// Package classifier wraps the external text-classification oracle.
// It turns a free-text incident report into a short summary plus a
// severity tier, absorbing malformed oracle output instead of failing.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"dispatchgo/backend/internal/config"
	"dispatchgo/backend/internal/models"
)

const promptTemplate = `You are an emergency response assistant.
Given this message: "%s", summarize it briefly
and assign a severity level from 1 to 3
(1=Low, 2=Moderate, 3=Critical).
Respond ONLY in JSON like: {"summary": "...", "severity": 3}`

// Classification is the result of classifying one report.
type Classification struct {
	Summary  string
	Severity int
}

// Oracle is the slice of the chat-completion client the gateway needs.
// *openai.Client satisfies it.
type Oracle interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Gateway calls the oracle and enforces the fallback policy: a response
// that cannot be parsed becomes {Summary: raw text, Severity: Low}.
// Only transport-level failures are returned as errors.
type Gateway struct {
	Oracle Oracle
	Model  string
}

// NewGateway creates a gateway on top of an existing oracle client.
func NewGateway(oracle Oracle, model string) *Gateway {
	return &Gateway{Oracle: oracle, Model: model}
}

// NewGatewayFromConfig builds the OpenAI-compatible client for the configured
// endpoint (Groq by default) and wraps it in a gateway.
func NewGatewayFromConfig(cfg *config.Config) *Gateway {
	clientConfig := openai.DefaultConfig(cfg.OracleAPIKey)
	clientConfig.BaseURL = cfg.OracleBaseURL
	return NewGateway(openai.NewClientWithConfig(clientConfig), cfg.OracleModel)
}

// Classify asks the oracle for a summary and severity of the given text.
func (g *Gateway) Classify(ctx context.Context, text string) (Classification, error) {
	resp, err := g.Oracle.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, text)},
		},
	})
	if err != nil {
		return Classification{}, fmt.Errorf("classification oracle: %w", err)
	}

	var raw string
	if len(resp.Choices) > 0 {
		raw = strings.TrimSpace(resp.Choices[0].Message.Content)
	}

	result, ok := parseClassification(raw)
	if !ok {
		// Availability over strictness: an unparseable response is stored
		// as a low-severity report carrying the raw oracle text.
		log.Printf("WARN: Unparseable classifier response, falling back to low severity: %q", raw)
		return Classification{Summary: raw, Severity: models.SeverityLow}, nil
	}
	return result, nil
}

// parseClassification parses the oracle response strictly as JSON with a
// string summary and a severity coercible to an integer in 1..3.
func parseClassification(raw string) (Classification, bool) {
	var payload struct {
		Summary  *string `json:"summary"`
		Severity any     `json:"severity"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Classification{}, false
	}
	if payload.Summary == nil {
		return Classification{}, false
	}
	severity, ok := coerceSeverity(payload.Severity)
	if !ok {
		return Classification{}, false
	}
	return Classification{Summary: *payload.Summary, Severity: severity}, true
}

func coerceSeverity(value any) (int, bool) {
	var severity int
	switch v := value.(type) {
	case float64:
		severity = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		severity = n
	default:
		return 0, false
	}
	if severity < models.SeverityLow || severity > models.SeverityCritical {
		return 0, false
	}
	return severity, true
}
