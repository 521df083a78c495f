package knowledge

import (
	"context"
	"fmt"
	"sync"

	"github.com/futig/ticket-classifier/internal/entity"
	kb "github.com/futig/ticket-classifier/internal/knowledge"
	"github.com/futig/ticket-classifier/internal/metrics"
	"github.com/futig/ticket-classifier/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// IndexResult summarizes one indexing run
type IndexResult struct {
	Skipped    bool
	Loaded     int
	Indexed    int
	Dropped    int
	Duplicates int
	Total      int
}

// KnowledgeUsecase indexes the historical ticket knowledge base and answers
// similarity queries against it
type KnowledgeUsecase struct {
	collection repository.Collection
	loader     KnowledgeLoader
	embedder   Embedder
	logger     *zap.Logger

	// indexMu is the initialization barrier for the one-time indexing write
	indexMu sync.Mutex
}

// NewUsecase creates a new knowledge use case
func NewUsecase(
	collection repository.Collection,
	loader KnowledgeLoader,
	embedder Embedder,
	logger *zap.Logger,
) *KnowledgeUsecase {
	return &KnowledgeUsecase{
		collection: collection,
		loader:     loader,
		embedder:   embedder,
		logger:     logger,
	}
}

// Index loads the knowledge base into the vector collection. It is a no-op
// when the collection already holds documents. Items whose embedding fails
// are dropped.
func (uc *KnowledgeUsecase) Index(ctx context.Context) (*IndexResult, error) {
	uc.indexMu.Lock()
	defer uc.indexMu.Unlock()

	count, err := uc.collection.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count collection: %w", err)
	}

	if count > 0 {
		ctxzap.Info(ctx, "knowledge base already indexed, skipping",
			zap.String("collection", uc.collection.Name()),
			zap.Int("documents", count),
		)
		metrics.IndexedDocuments.Set(float64(count))
		return &IndexResult{Skipped: true, Total: count}, nil
	}

	items, err := uc.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}

	ctxzap.Info(ctx, "indexing knowledge base",
		zap.String("collection", uc.collection.Name()),
		zap.Int("items", len(items)),
	)

	result := &IndexResult{Loaded: len(items)}
	records := uc.buildRecords(ctx, items, result)

	inserted, err := uc.collection.Add(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("add documents: %w", err)
	}
	result.Indexed = inserted

	total, err := uc.collection.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count collection: %w", err)
	}
	result.Total = total
	metrics.IndexedDocuments.Set(float64(total))

	ctxzap.Info(ctx, "knowledge base indexed",
		zap.Int("indexed", result.Indexed),
		zap.Int("dropped", result.Dropped),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("total", total),
	)

	return result, nil
}

// Retrieve returns the k most similar historical tickets for a query, nearest
// first. Embedding or query failures yield an empty list.
func (uc *KnowledgeUsecase) Retrieve(ctx context.Context, query string, k int) []entity.RAGDocument {
	docs := []entity.RAGDocument{}

	embedding, ok := uc.embedder.Embed(ctx, query)
	if !ok {
		ctxzap.Warn(ctx, "query embedding unavailable, continuing without evidence")
		metrics.RetrievedDocuments.Observe(0)
		return docs
	}

	matches, err := uc.collection.Query(ctx, embedding, k)
	if err != nil {
		ctxzap.Warn(ctx, "vector query failed, continuing without evidence", zap.Error(err))
		metrics.RetrievedDocuments.Observe(0)
		return docs
	}

	for _, m := range matches {
		docs = append(docs, toRAGDocument(m))
	}

	metrics.RetrievedDocuments.Observe(float64(len(docs)))
	ctxzap.Debug(ctx, "historical tickets retrieved", zap.Int("count", len(docs)))

	return docs
}

func (uc *KnowledgeUsecase) buildRecords(
	ctx context.Context,
	items []entity.KnowledgeItem,
	result *IndexResult,
) []entity.VectorRecord {
	records := make([]entity.VectorRecord, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		id := item.TicketID.String()
		if _, dup := seen[id]; dup {
			result.Duplicates++
			ctxzap.Warn(ctx, "duplicate ticket_id in knowledge base, keeping first", zap.String("ticket_id", id))
			continue
		}
		seen[id] = struct{}{}

		text := kb.CompositeText(item)
		embedding, ok := uc.embedder.Embed(ctx, text)
		if !ok {
			result.Dropped++
			ctxzap.Warn(ctx, "embedding failed, dropping item from index", zap.String("ticket_id", id))
			continue
		}

		records = append(records, entity.VectorRecord{
			ID:       id,
			Document: text,
			Metadata: map[string]string{
				entity.MetaTicketID: id,
				entity.MetaTitle:    item.Title,
				entity.MetaCategory: item.Category,
				entity.MetaSolution: kb.SolutionSummary(item),
			},
			Embedding: embedding,
		})
	}

	return records
}
