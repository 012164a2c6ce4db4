package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tripboard-backend/internal/domain"
	appErrors "tripboard-backend/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ConfigSource yields the current model credentials. Implementations may
// swap the config at runtime (settings endpoint, file watcher); the
// provider re-reads it on every call.
type ConfigSource interface {
	AIConfig() domain.AIConfig
}

// HTTPProvider talks to an OpenAI-compatible chat completions endpoint.
// Calls go through a circuit breaker so a flapping upstream degrades to
// fast local failures instead of piling up goroutines on timeouts.
type HTTPProvider struct {
	client  *http.Client
	configs ConfigSource
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewHTTPProvider creates a provider backed by the given config source
func NewHTTPProvider(configs ConfigSource, logger *zap.Logger) *HTTPProvider {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ai-provider",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &HTTPProvider{
		client:  &http.Client{Timeout: 60 * time.Second},
		configs: configs,
		breaker: breaker,
		logger:  logger,
	}
}

// IsConfigured reports whether the current config has enough to call out
func (p *HTTPProvider) IsConfigured() bool {
	return p.configs.AIConfig().IsConfigured()
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a chat completion request and returns the raw text
func (p *HTTPProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	cfg := p.configs.AIConfig()
	if !cfg.IsConfigured() {
		return "", appErrors.NewUnavailable("model endpoint is not configured")
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.call(ctx, cfg, req)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", appErrors.NewUnavailable("model endpoint temporarily unavailable")
		}
		return "", err
	}
	return result.(string), nil
}

func (p *HTTPProvider) call(ctx context.Context, cfg domain.AIConfig, req CompletionRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", appErrors.Wrap(err, "failed to encode completion request")
	}

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", appErrors.Wrap(err, "failed to build completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", appErrors.Wrap(err, "completion request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", appErrors.Wrap(err, "failed to read completion response")
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("model endpoint returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", appErrors.NewUnavailable(fmt.Sprintf("model endpoint returned status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", appErrors.Wrap(err, "failed to decode completion response")
	}
	if parsed.Error != nil {
		return "", appErrors.NewUnavailable("model error: " + parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", appErrors.NewUnavailable("model returned no choices")
	}

	p.logger.Debug("completion finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_bytes", len(payload)),
	)
	return parsed.Choices[0].Message.Content, nil
}
