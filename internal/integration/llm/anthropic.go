package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/futig/ticket-classifier/internal/config"
	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AnthropicConnector requests classifications from the Anthropic messages API.
// The API has no JSON mode, so a code fence around the answer is stripped.
type AnthropicConnector struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
}

func NewAnthropicConnector(
	cfg config.AnthropicConfig,
	llmCfg config.LLMConfig,
	logger *zap.Logger,
) (*AnthropicConnector, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY", ErrMissingAPIKey)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(common.NewHTTPClient(cfg.HTTPClientConfig)),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicConnector{
		client:    anthropic.NewClient(opts...),
		model:     llmCfg.Model,
		maxTokens: int64(llmCfg.MaxTokens),
		logger:    logger,
	}, nil
}

func (c *AnthropicConnector) Provider() string {
	return config.ProviderAnthropic
}

func (c *AnthropicConnector) Model() string {
	return c.model
}

// Complete sends the prompt as the only user message and returns the first
// text block of the answer
func (c *AnthropicConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "requesting classification from LLM",
		zap.String("provider", config.ProviderAnthropic),
		zap.String("model", c.model),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		observe(config.ProviderAnthropic, c.model, statusError, start, 0, 0)
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	observe(config.ProviderAnthropic, c.model, statusOK, start, message.Usage.InputTokens, message.Usage.OutputTokens)

	for _, block := range message.Content {
		if block.Type != "text" || block.Text == "" {
			continue
		}

		ctxzap.Info(ctx, "LLM response received",
			zap.Int("response_length", len(block.Text)),
			zap.Int64("input_tokens", message.Usage.InputTokens),
			zap.Int64("output_tokens", message.Usage.OutputTokens),
			zap.String("stop_reason", string(message.StopReason)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return trimCodeFence(block.Text), nil
	}

	return "", fmt.Errorf("anthropic: %w", entity.ErrEmptyModelResponse)
}
