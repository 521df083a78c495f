package builder

import (
	"context"
	"fmt"

	"github.com/futig/ticket-classifier/internal/config"
	knowledgeuc "github.com/futig/ticket-classifier/internal/usecase/knowledge"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Indexer loads the knowledge base into the configured vector store once
type Indexer struct {
	usecase *knowledgeuc.KnowledgeUsecase
	db      *pgxpool.Pool
	logger  *zap.Logger
}

// BuildIndexer wires the indexing pipeline only
func BuildIndexer() (*Indexer, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	ctx := context.Background()

	store, db, err := setupVectorStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	embedder, err := setupEmbedder(cfg, logger)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	uc, err := setupKnowledge(ctx, cfg, store, embedder, logger)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	return &Indexer{usecase: uc, db: db, logger: logger}, nil
}

func (i *Indexer) Logger() *zap.Logger {
	return i.logger
}

// Run indexes the knowledge base unless the collection is already populated
func (i *Indexer) Run(ctx context.Context) (*knowledgeuc.IndexResult, error) {
	ctx = ctxzap.ToContext(ctx, i.logger.With(zap.String("action", "Index")))
	return i.usecase.Index(ctx)
}

func (i *Indexer) Close() {
	if i.db != nil {
		i.db.Close()
	}
	_ = i.logger.Sync()
}
