package builder

import (
	"context"
	"fmt"

	"github.com/futig/ticket-classifier/internal/config"
	"github.com/futig/ticket-classifier/internal/integration/embedding"
	"github.com/futig/ticket-classifier/internal/integration/llm"
	"github.com/futig/ticket-classifier/internal/knowledge"
	"github.com/futig/ticket-classifier/internal/repository"
	"github.com/futig/ticket-classifier/internal/usecase/classification"
	knowledgeuc "github.com/futig/ticket-classifier/internal/usecase/knowledge"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// setupVectorStore opens the configured vector store. The pool is nil for
// the in-memory store.
func setupVectorStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.VectorStore, *pgxpool.Pool, error) {
	if cfg.VectorStore == config.VectorStoreMemory {
		logger.Info("Using in-memory vector store")
		return repository.NewVectorStoreMemory(), nil, nil
	}

	db, err := openVectorDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open vector database: %w", err)
	}

	return repository.NewVectorStorePostgres(db), db, nil
}

func setupEmbedder(cfg *config.Config, logger *zap.Logger) (knowledgeuc.Embedder, error) {
	var inner embedding.Embedder
	if cfg.EnableMocks {
		logger.Info("Using mock embedding connector")
		inner = embedding.NewMockConnector(logger)
	} else {
		conn, err := embedding.NewConnector(cfg.OpenAICfg, logger)
		if err != nil {
			return nil, fmt.Errorf("embedding connector: %w", err)
		}
		inner = conn
	}

	if cfg.RAGCfg.EmbeddingCacheTTL <= 0 {
		return inner, nil
	}
	return embedding.NewCachedEmbedder(inner, cfg.RAGCfg.EmbeddingCacheTTL), nil
}

func setupLLM(cfg *config.Config, logger *zap.Logger) (classification.LLMConnector, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock LLM connector")
		return llm.NewMockConnector(logger), nil
	}

	switch cfg.LLMCfg.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropicConnector(cfg.AnthropicCfg, cfg.LLMCfg, logger)
	case config.ProviderOpenAI:
		return llm.NewOpenAIConnector(cfg.OpenAICfg, cfg.LLMCfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMCfg.Provider)
	}
}

func setupKnowledge(
	ctx context.Context,
	cfg *config.Config,
	store repository.VectorStore,
	embedder knowledgeuc.Embedder,
	logger *zap.Logger,
) (*knowledgeuc.KnowledgeUsecase, error) {
	collection, err := store.GetOrCreateCollection(ctx, cfg.RAGCfg.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("open collection %q: %w", cfg.RAGCfg.CollectionName, err)
	}

	loader := knowledge.NewFileLoader(cfg.RAGCfg.KnowledgeBasePath)
	return knowledgeuc.NewUsecase(collection, loader, embedder, logger), nil
}
