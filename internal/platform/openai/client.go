// Package openai wraps the chat-completions API used for mentor replies and doubt answers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/hummingbird-backend/internal/observability"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

const (
	RoleSystem    = goopenai.ChatMessageRoleSystem
	RoleUser      = goopenai.ChatMessageRoleUser
	RoleAssistant = goopenai.ChatMessageRoleAssistant
)

var ErrEmptyResponse = errors.New("openai: no choices in response")

type Message struct {
	Role    string
	Content string
}

type Completion struct {
	Text        string
	TotalTokens *int
	Model       string
}

// Client is the generation service contract: ordered role-tagged messages in, one reply out.
type Client interface {
	Chat(ctx context.Context, messages []Message) (*Completion, error)
	// Model is the configured default model name.
	Model() string
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64
	MaxTokens   int
	Timeout     time.Duration
}

// APIError carries the upstream HTTP status when the API rejected the request.
type APIError struct {
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai chat completion failed (status %d): %v", e.StatusCode, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

type client struct {
	log         *logger.Logger
	api         *goopenai.Client
	model       string
	temperature *float64
	maxTokens   int
	timeout     time.Duration
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = goopenai.GPT4oMini
	}

	config := goopenai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		config.BaseURL = strings.TrimRight(base, "/")
	}
	if cfg.Timeout > 0 {
		config.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &client{
		log:         log.With("client", "OpenAIClient"),
		api:         goopenai.NewClientWithConfig(config),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
	}, nil
}

func (c *client) Model() string { return c.model }

func (c *client) Chat(ctx context.Context, messages []Message) (*Completion, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("openai: no messages")
	}
	ctx, span := observability.Tracer("hummingbird/openai").Start(ctx, "openai.chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.messages", len(messages)),
	)

	req := goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toAPIMessages(messages),
	}
	if c.temperature != nil {
		req.Temperature = float32(*c.temperature)
	}
	if c.maxTokens > 0 {
		req.MaxCompletionTokens = c.maxTokens
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		err = mapError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		c.log.Error("Chat completion failed", "model", c.model, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		span.SetStatus(codes.Error, "empty response")
		return nil, ErrEmptyResponse
	}

	out := &Completion{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
	}
	if resp.Usage.TotalTokens > 0 {
		total := resp.Usage.TotalTokens
		out.TotalTokens = &total
		span.SetAttributes(attribute.Int("llm.total_tokens", total))
	}
	if out.Model == "" {
		out.Model = c.model
	}
	c.log.Debug("Chat completion done", "model", out.Model, "duration_ms", time.Since(start).Milliseconds(), "tokens_total", resp.Usage.TotalTokens)
	return out, nil
}

func toAPIMessages(messages []Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		switch role {
		case RoleSystem, RoleAssistant:
		default:
			role = RoleUser
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return fmt.Errorf("openai chat completion: %w", err)
}
