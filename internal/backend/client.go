// Package backend implements the completion clients for the supported LLM
// providers. Each client converts the session transcript to its provider's
// wire format, makes one chat-completion call, and returns the model's raw
// text reply. The rest of the system treats that call as opaque: possibly
// slow, possibly failing, never retried here.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"TalkTutor/internal/config"
	"TalkTutor/internal/session"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("talktutor/backend")
	meter  = otel.Meter("talktutor/backend")
)

// Client is an opaque completion call over the trimmed transcript, system
// message included.
type Client interface {
	Complete(ctx context.Context, messages []session.Message) (string, error)
	Name() string
}

// New selects a client by the configured backend name.
func New(cfg *config.Config, httpClient *http.Client) (Client, error) {
	switch cfg.Backend {
	case config.BackendOllama:
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel, httpClient), nil
	case config.BackendAnthropic:
		return NewAnthropic(httpClient), nil
	case config.BackendGrok:
		return NewGrok(httpClient), nil
	case config.BackendOpenAI:
		return NewOpenAI(httpClient), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// postJSON marshals reqBody, POSTs it, and returns the response body. A
// non-200 status is an error carrying the status line and body.
func postJSON(ctx context.Context, httpClient *http.Client, url string, headers map[string]string, reqBody interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	return body, nil
}

// recordDuration records the completion request duration histogram.
func recordDuration(ctx context.Context, start time.Time) {
	histogram, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(time.Since(start).Milliseconds()))
	}
}

// recordUsage records token-usage counters from a provider usage map.
func recordUsage(ctx context.Context, usage map[string]interface{}) {
	for key, value := range usage {
		if intVal, ok := value.(float64); ok {
			counter, err := meter.Int64Counter(
				fmt.Sprintf("llm.usage.%s", key),
				metric.WithDescription(fmt.Sprintf("LLM usage metric: %s", key)),
			)
			if err != nil {
				continue
			}
			counter.Add(ctx, int64(intVal))
		}
	}
}
