package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"TalkTutor/internal/config"
	"TalkTutor/internal/session"
)

// OpenAIRequest represents the request body for OpenAI-compatible APIs
type OpenAIRequest struct {
	Model    string              `json:"model"`
	Messages []map[string]string `json:"messages"`
}

// OpenAIResponse represents the response from OpenAI-compatible APIs
type OpenAIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage map[string]interface{} `json:"usage"`
}

// OpenAI talks to any OpenAI-compatible chat completion endpoint. Grok
// exposes the same wire format, so both backends share this client with
// different endpoint, model, and key settings.
type OpenAI struct {
	name       string
	url        string
	model      string
	apiKeyEnv  string
	httpClient *http.Client
}

// NewOpenAI creates a client for the OpenAI API. The key is read from
// OPENAI_API_KEY at call time.
func NewOpenAI(httpClient *http.Client) *OpenAI {
	return &OpenAI{
		name:       config.BackendOpenAI,
		url:        "https://api.openai.com/v1/chat/completions",
		model:      "gpt-3.5-turbo",
		apiKeyEnv:  "OPENAI_API_KEY",
		httpClient: httpClient,
	}
}

// NewGrok creates a client for the Grok API. The key is read from
// GROK_API_KEY at call time.
func NewGrok(httpClient *http.Client) *OpenAI {
	return &OpenAI{
		name:       config.BackendGrok,
		url:        "https://api.grok.x.ai/v1/chat/completions",
		model:      "grok-1",
		apiKeyEnv:  "GROK_API_KEY",
		httpClient: httpClient,
	}
}

// Name returns the backend identifier.
func (c *OpenAI) Name() string { return c.name }

// Complete sends the transcript to the endpoint and returns the reply text.
func (c *OpenAI) Complete(ctx context.Context, messages []session.Message) (string, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("%s_api_call", c.name))
	defer span.End()

	start := time.Now()

	apiKey := os.Getenv(c.apiKeyEnv)
	if apiKey == "" {
		return "", fmt.Errorf("%s not set", c.apiKeyEnv)
	}

	reqMessages := make([]map[string]string, len(messages))
	for i, msg := range messages {
		reqMessages[i] = map[string]string{
			"role":    msg.Role,
			"content": msg.Content,
		}
	}

	reqBody := OpenAIRequest{
		Model:    c.model,
		Messages: reqMessages,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
	}

	body, err := postJSON(ctx, c.httpClient, c.url, headers, reqBody)
	if err != nil {
		return "", err
	}

	var apiResp OpenAIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	recordDuration(ctx, start)
	recordUsage(ctx, apiResp.Usage)

	if len(apiResp.Choices) > 0 {
		return apiResp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("empty response from %s", c.name)
}
