package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/ticket-classifier/internal/config"
	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/integration/common"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIConnector requests classifications from the OpenAI chat completions API
// in JSON object mode
type OpenAIConnector struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *zap.Logger
}

func NewOpenAIConnector(
	cfg config.OpenAIConfig,
	llmCfg config.LLMConfig,
	logger *zap.Logger,
) (*OpenAIConnector, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY", ErrMissingAPIKey)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = common.NewHTTPClient(cfg.HTTPClientConfig)

	return &OpenAIConnector{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     llmCfg.Model,
		maxTokens: llmCfg.MaxTokens,
		logger:    logger,
	}, nil
}

func (c *OpenAIConnector) Provider() string {
	return config.ProviderOpenAI
}

func (c *OpenAIConnector) Model() string {
	return c.model
}

// Complete sends the prompt as the only system message and returns the
// content of the first choice
func (c *OpenAIConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "requesting classification from LLM",
		zap.String("provider", config.ProviderOpenAI),
		zap.String("model", c.model),
		zap.Int("prompt_length", len(prompt)),
	)

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		observe(config.ProviderOpenAI, c.model, statusError, start, 0, 0)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	observe(config.ProviderOpenAI, c.model, statusOK, start,
		int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens))

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: %w", entity.ErrEmptyModelResponse)
	}

	content := resp.Choices[0].Message.Content
	ctxzap.Info(ctx, "LLM response received",
		zap.Int("response_length", len(content)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return content, nil
}
