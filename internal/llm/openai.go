package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kanchNaik/AiMockInterviewer/internal/reliability"
	"github.com/kanchNaik/AiMockInterviewer/internal/transcript"
)

const (
	retryBase = 250 * time.Millisecond
	retryCap  = 4 * time.Second
)

// OpenAIConfig controls the OpenAI-backed gateway.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds each individual completion attempt.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first on
	// retryable provider statuses (429, 5xx). Zero disables retries.
	MaxRetries int
	// ObserveLatency and OnRetry feed metrics when set.
	ObserveLatency func(time.Duration)
	OnRetry        func()
}

// OpenAIClient calls the OpenAI chat-completion API (or any compatible
// endpoint configured via BaseURL).
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
}

func NewOpenAI(cfg OpenAIConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []transcript.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    toChatMessages(messages),
		Temperature: 0.7,
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		text, err := c.completeOnce(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if attempt >= c.cfg.MaxRetries || !isRetryable(err) || ctx.Err() != nil {
			break
		}
		if c.cfg.OnRetry != nil {
			c.cfg.OnRetry()
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrGateway, ctx.Err())
		case <-time.After(reliability.JitteredBackoff(attempt, retryBase, retryCap)):
		}
	}
	return "", fmt.Errorf("%w: %v", ErrGateway, lastErr)
}

func (c *OpenAIClient) completeOnce(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	started := time.Now()
	resp, err := c.client.CreateChatCompletion(callCtx, req)
	if c.cfg.ObserveLatency != nil {
		c.cfg.ObserveLatency(time.Since(started))
	}
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

func toChatMessages(messages []transcript.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}

func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return reliability.IsRetryableHTTPStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reliability.IsRetryableHTTPStatus(reqErr.HTTPStatusCode)
	}
	return false
}
