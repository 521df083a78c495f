package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/ticket-classifier/internal/api"
	classifyapi "github.com/futig/ticket-classifier/internal/api/classify"
	"github.com/futig/ticket-classifier/internal/config"
	"github.com/futig/ticket-classifier/internal/pkg/formatter"
	"github.com/futig/ticket-classifier/internal/pkg/prompt"
	"github.com/futig/ticket-classifier/internal/pkg/schema"
	"github.com/futig/ticket-classifier/internal/pkg/validator"
	"github.com/futig/ticket-classifier/internal/rules"
	"github.com/futig/ticket-classifier/internal/usecase/classification"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Build wires the HTTP service. Failures of the classification pipeline
// (vector store, providers, indexing) do not abort startup: the service
// comes up and reports itself unavailable.
func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	ctx := ctxzap.ToContext(context.Background(), logger.With(zap.String("action", "Build")))

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("vector_store", cfg.VectorStore),
		zap.String("llm_provider", cfg.LLMCfg.Provider),
		zap.String("llm_model", cfg.LLMCfg.Model),
		zap.String("priority_policy", cfg.PriorityPolicy),
		zap.Bool("mocks", cfg.EnableMocks),
	)

	clients, err := rules.LoadClientTable(cfg.ClientsFile)
	if err != nil {
		return nil, fmt.Errorf("load client table: %w", err)
	}

	policy, err := rules.NewPriorityPolicy(cfg.PriorityPolicy)
	if err != nil {
		return nil, fmt.Errorf("priority policy: %w", err)
	}

	classifier, db, err := buildClassifier(ctx, cfg, clients, policy, logger)
	if err != nil {
		logger.Error("Classifier could not be initialised, serving as unavailable", zap.Error(err))
	}

	// Setup API handlers
	classifyHandler := classifyapi.NewHandler(
		classifier,
		clients,
		validator.NewTicketValidator(cfg.TicketMaxFieldLength),
		formatter.NewFactory(),
	)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(classifyHandler, logger)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: api.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
		zap.Bool("classifier_available", classifier.Available()),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}

// buildClassifier opens the vector store, indexes the knowledge base and
// wires the classification pipeline
func buildClassifier(
	ctx context.Context,
	cfg *config.Config,
	clients *rules.ClientTable,
	policy rules.PriorityPolicy,
	logger *zap.Logger,
) (*classification.ClassificationUsecase, *pgxpool.Pool, error) {
	store, db, err := setupVectorStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	fail := func(err error) (*classification.ClassificationUsecase, *pgxpool.Pool, error) {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}

	embedder, err := setupEmbedder(cfg, logger)
	if err != nil {
		return fail(err)
	}

	llmConnector, err := setupLLM(cfg, logger)
	if err != nil {
		return fail(fmt.Errorf("llm connector: %w", err))
	}
	logger.Info("Connectors initialized",
		zap.String("llm_provider", llmConnector.Provider()),
		zap.String("llm_model", llmConnector.Model()),
	)

	knowledgeUC, err := setupKnowledge(ctx, cfg, store, embedder, logger)
	if err != nil {
		return fail(err)
	}

	if _, err := knowledgeUC.Index(ctx); err != nil {
		return fail(fmt.Errorf("index knowledge base: %w", err))
	}

	prompts := prompt.NewBuilder(clients, policy, schema.Literal(), cfg.RAGCfg.RelevanceThreshold)

	classifier := classification.NewUsecase(
		knowledgeUC,
		prompts,
		llmConnector,
		policy,
		classification.Config{
			TopK:      cfg.RAGCfg.TopK,
			QueryHint: cfg.RAGCfg.QueryHint,
		},
		logger,
	)
	logger.Info("Use cases initialized")

	return classifier, db, nil
}
