package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"TalkTutor/internal/config"
	"TalkTutor/internal/session"
)

// AnthropicRequest represents the request body for Anthropic API
type AnthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []AnthropicMessage `json:"messages"`
}

// AnthropicMessage represents a message in the conversation
type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnthropicResponse represents the response from Anthropic API
type AnthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model        string                 `json:"model"`
	StopReason   string                 `json:"stop_reason"`
	StopSequence string                 `json:"stop_sequence"`
	Usage        map[string]interface{} `json:"usage"`
}

// Anthropic talks to the Anthropic Messages API. Anthropic does not accept a
// "system" role in the messages array, so the system message is hoisted into
// the request's top-level system field.
type Anthropic struct {
	httpClient *http.Client
}

// NewAnthropic creates an Anthropic client. The API key is read from
// ANTHROPIC_API_KEY at call time.
func NewAnthropic(httpClient *http.Client) *Anthropic {
	return &Anthropic{httpClient: httpClient}
}

// Name returns the backend identifier.
func (a *Anthropic) Name() string { return config.BackendAnthropic }

// Complete sends the transcript to Anthropic and returns the reply text.
func (a *Anthropic) Complete(ctx context.Context, messages []session.Message) (string, error) {
	ctx, span := tracer.Start(ctx, "anthropic_api_call")
	defer span.End()

	start := time.Now()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	var system []string
	reqMessages := make([]AnthropicMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == session.RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		reqMessages = append(reqMessages, AnthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	reqBody := AnthropicRequest{
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 1024,
		System:    strings.Join(system, "\n\n"),
		Messages:  reqMessages,
	}

	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": "2023-06-01",
	}

	body, err := postJSON(ctx, a.httpClient, "https://api.anthropic.com/v1/messages", headers, reqBody)
	if err != nil {
		return "", err
	}

	var apiResp AnthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	recordDuration(ctx, start)
	recordUsage(ctx, apiResp.Usage)

	for _, content := range apiResp.Content {
		if content.Type == "text" {
			return content.Text, nil
		}
	}

	return "", fmt.Errorf("empty response from Anthropic")
}
