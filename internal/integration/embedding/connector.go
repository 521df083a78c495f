package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/futig/ticket-classifier/internal/config"
	"github.com/futig/ticket-classifier/internal/integration/common"
	"github.com/futig/ticket-classifier/internal/metrics"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var ErrMissingAPIKey = errors.New("openai api key is not configured")

// Connector generates embeddings with the OpenAI embeddings API
type Connector struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewConnector(cfg config.OpenAIConfig, logger *zap.Logger) (*Connector, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = common.NewHTTPClient(cfg.HTTPClientConfig)

	return &Connector{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.EmbeddingModel,
		logger: logger,
	}, nil
}

// Embed converts text into a vector. Any provider failure is logged and
// reported as absence (nil, false) rather than an error.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, bool) {
	start := time.Now()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues("error").Inc()
		ctxzap.Warn(ctx, "failed to generate embedding",
			zap.String("model", c.model),
			zap.Error(err),
		)
		return nil, false
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		metrics.EmbeddingRequestsTotal.WithLabelValues("error").Inc()
		ctxzap.Warn(ctx, "embedding response contains no vector", zap.String("model", c.model))
		return nil, false
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues("ok").Inc()
	ctxzap.Debug(ctx, "embedding generated",
		zap.String("model", c.model),
		zap.Int("dimensions", len(resp.Data[0].Embedding)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return resp.Data[0].Embedding, true
}
