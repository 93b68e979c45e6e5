package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TalkTutor/internal/config"
	"TalkTutor/internal/session"
)

// OllamaRequest represents the request body for Ollama API
type OllamaRequest struct {
	Model    string              `json:"model"`
	Messages []map[string]string `json:"messages"`
	Stream   bool                `json:"stream"`
}

// OllamaResponse represents the response from Ollama API
type OllamaResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Message   struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Ollama talks to a local or remote Ollama server. The system message is
// passed inline with role "system", which Ollama accepts directly.
type Ollama struct {
	url        string
	model      string
	httpClient *http.Client
}

// NewOllama creates an Ollama client for the given base URL and model.
func NewOllama(url, model string, httpClient *http.Client) *Ollama {
	return &Ollama{url: url, model: model, httpClient: httpClient}
}

// Name returns the backend identifier.
func (o *Ollama) Name() string { return config.BackendOllama }

// Complete sends the transcript to Ollama and returns the reply text.
func (o *Ollama) Complete(ctx context.Context, messages []session.Message) (string, error) {
	ctx, span := tracer.Start(ctx, "ollama_api_call")
	defer span.End()

	start := time.Now()

	reqMessages := make([]map[string]string, len(messages))
	for i, msg := range messages {
		reqMessages[i] = map[string]string{
			"role":    msg.Role,
			"content": msg.Content,
		}
	}

	reqBody := OllamaRequest{
		Model:    o.model,
		Messages: reqMessages,
		Stream:   false,
	}

	body, err := postJSON(ctx, o.httpClient, o.url+"/api/chat", nil, reqBody)
	if err != nil {
		return "", err
	}

	var apiResp OllamaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	recordDuration(ctx, start)

	if apiResp.Message.Content == "" {
		return "", fmt.Errorf("empty response from Ollama")
	}

	return apiResp.Message.Content, nil
}
