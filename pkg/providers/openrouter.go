package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/filewren/filewren/pkg/logger"
)

const defaultRequestTimeout = 90 * time.Second

// OpenRouterProvider speaks the OpenAI chat-completions protocol against any
// compatible endpoint. Requests are not retried; a failed call surfaces to
// the caller, which owns the conversation rollback.
type OpenRouterProvider struct {
	apiKey     string
	apiBase    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*OpenRouterProvider)

func WithRequestTimeout(timeout time.Duration) Option {
	return func(p *OpenRouterProvider) {
		if timeout > 0 {
			p.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit caps outgoing chat requests per minute. Zero or negative
// disables limiting.
func WithRateLimit(requestsPerMinute int) Option {
	return func(p *OpenRouterProvider) {
		if requestsPerMinute > 0 {
			p.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
		}
	}
}

func NewOpenRouterProvider(apiKey, apiBase, model string, opts ...Option) *OpenRouterProvider {
	p := &OpenRouterProvider{
		apiKey:  apiKey,
		apiBase: strings.TrimRight(apiBase, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

func (p *OpenRouterProvider) Model() string {
	return p.model
}

func (p *OpenRouterProvider) Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*LLMResponse, error) {
	if p.apiBase == "" {
		return nil, fmt.Errorf("API base not configured")
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	requestBody := map[string]any{
		"model":    p.model,
		"messages": messages,
	}
	if len(tools) > 0 {
		requestBody["tools"] = tools
		requestBody["tool_choice"] = "auto"
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	logger.DebugCF("provider", "Sending chat request", map[string]any{
		"model":    p.model,
		"messages": len(messages),
		"tools":    len(tools),
	})

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed: status %d: %s", resp.StatusCode, string(body))
	}

	return parseResponse(body)
}

func parseResponse(body []byte) (*LLMResponse, error) {
	var apiResponse struct {
		Choices []struct {
			Message      *Message `json:"message"`
			FinishReason string   `json:"finish_reason"`
		} `json:"choices"`
		Usage *UsageInfo `json:"usage"`
	}

	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(apiResponse.Choices) == 0 {
		return nil, fmt.Errorf("response contains no choices")
	}

	choice := apiResponse.Choices[0]
	if choice.Message == nil {
		return nil, fmt.Errorf("response choice is missing a message")
	}

	return &LLMResponse{
		Content:      choice.Message.Content,
		ToolCalls:    choice.Message.ToolCalls,
		FinishReason: choice.FinishReason,
		Usage:        apiResponse.Usage,
	}, nil
}
