package classification

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/metrics"
	"github.com/futig/ticket-classifier/internal/pkg/logger"
	"github.com/futig/ticket-classifier/internal/pkg/schema"
	"github.com/futig/ticket-classifier/internal/rules"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxLoggedResponse = 2000

type Config struct {
	TopK      int
	QueryHint string
}

// ClassificationUsecase runs the retrieval-augmented classification pipeline
type ClassificationUsecase struct {
	retriever Retriever
	prompts   PromptBuilder
	llm       LLMConnector
	policy    rules.PriorityPolicy
	cfg       Config
	logger    *zap.Logger
}

// NewUsecase creates a new classification use case
func NewUsecase(
	retriever Retriever,
	prompts PromptBuilder,
	llm LLMConnector,
	policy rules.PriorityPolicy,
	cfg Config,
	logger *zap.Logger,
) *ClassificationUsecase {
	return &ClassificationUsecase{
		retriever: retriever,
		prompts:   prompts,
		llm:       llm,
		policy:    policy,
		cfg:       cfg,
		logger:    logger,
	}
}

// Classify retrieves similar historical tickets, asks the model for a
// classification, validates it against the output schema, reconciles it
// with the business rules and attaches the retrieved evidence.
func (uc *ClassificationUsecase) Classify(ctx context.Context, ticket entity.TicketInput) (*entity.TicketClassification, error) {
	if uc == nil || uc.retriever == nil || uc.prompts == nil || uc.llm == nil || uc.policy == nil {
		return nil, entity.ErrClassifierUnavailable
	}

	start := time.Now()
	defer func() {
		metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	}()

	ctx = logger.AddFields(ctx, logger.TicketFields(ticket)...)
	ctxzap.Info(ctx, "classifying ticket")

	docs := uc.retriever.Retrieve(ctx, BuildQuery(ticket, uc.cfg.QueryHint), uc.cfg.TopK)
	if docs == nil {
		docs = []entity.RAGDocument{}
	}

	p := uc.prompts.Build(ticket, docs)
	metrics.RelevantEvidenceTotal.WithLabelValues(fmt.Sprint(p.RelevantEvidence)).Inc()

	raw, err := uc.llm.Complete(ctx, p.Text)
	if err != nil {
		metrics.ClassificationsTotal.WithLabelValues("llm_error", "").Inc()
		ctxzap.Error(ctx, "LLM request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", entity.ErrClassificationFailed, err)
	}

	result := schema.Validate(raw)
	if !result.OK {
		metrics.ClassificationsTotal.WithLabelValues("invalid_output", "").Inc()
		ctxzap.Error(ctx, "LLM returned an invalid classification",
			zap.Strings("errors", result.Errors),
			zap.String("response", truncate(raw, maxLoggedResponse)),
		)
		return nil, fmt.Errorf("%w: %w", entity.ErrClassificationFailed, result.Err())
	}

	classification := result.Classification
	if err := Reconcile(ctx, classification, ticket, uc.policy, p.RelevantEvidence); err != nil {
		metrics.ClassificationsTotal.WithLabelValues("reconcile_error", "").Inc()
		return nil, fmt.Errorf("%w: %w", entity.ErrClassificationFailed, err)
	}

	classification.Evidence = docs

	metrics.ClassificationsTotal.WithLabelValues("ok", string(classification.Priority)).Inc()
	ctxzap.Info(ctx, "ticket classified",
		zap.String("priority", string(classification.Priority)),
		zap.String("category", classification.SuggestedCategory),
		zap.Float64("confidence", classification.Confidence),
		zap.Int("evidence_count", len(docs)),
		zap.Bool("relevant_evidence", p.RelevantEvidence),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return classification, nil
}

// Available reports whether every pipeline dependency is wired
func (uc *ClassificationUsecase) Available() bool {
	return uc != nil && uc.retriever != nil && uc.prompts != nil && uc.llm != nil && uc.policy != nil
}
