package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/futig/ticket-classifier/internal/entity"
	kb "github.com/futig/ticket-classifier/internal/knowledge"
	"github.com/futig/ticket-classifier/internal/integration/embedding"
	"github.com/futig/ticket-classifier/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticLoader struct {
	items []entity.KnowledgeItem
	err   error
	calls int
}

func (l *staticLoader) Load() ([]entity.KnowledgeItem, error) {
	l.calls++
	return l.items, l.err
}

// failingEmbedder fails for any text containing one of the markers
type failingEmbedder struct {
	inner   Embedder
	markers []string
}

func (f *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, bool) {
	for _, m := range f.markers {
		if strings.Contains(text, m) {
			return nil, false
		}
	}
	return f.inner.Embed(ctx, text)
}

type brokenCollection struct {
	repository.Collection
}

func (brokenCollection) Query(context.Context, []float32, int) ([]entity.VectorMatch, error) {
	return nil, errors.New("connection refused")
}

func sampleItems() []entity.KnowledgeItem {
	return []entity.KnowledgeItem{
		{TicketID: "T-001", Title: "Caída de pasarela de pagos", Description: "Los pagos con tarjeta fallan", Category: "Pagos", Solution: "Reinicio del gateway", ResolutionTime: "2 horas"},
		{TicketID: "T-002", Title: "Error de login", Description: "Usuarios no pueden iniciar sesión", Category: "Autenticación", Solution: "Rotación de certificados", ResolutionTime: "1 hora"},
		{TicketID: "T-003", Title: "Reporte lento", Description: "El reporte mensual tarda minutos", Category: "Rendimiento", Solution: "Índice en la tabla de ventas", ResolutionTime: "1 día"},
	}
}

func newUsecase(t *testing.T, loader KnowledgeLoader, embedder Embedder) (*KnowledgeUsecase, repository.Collection) {
	t.Helper()

	store := repository.NewVectorStoreMemory()
	collection, err := store.GetOrCreateCollection(context.Background(), "ticket_history_collection")
	require.NoError(t, err)

	return NewUsecase(collection, loader, embedder, zap.NewNop()), collection
}

func TestIndex_Idempotent(t *testing.T) {
	ctx := context.Background()
	loader := &staticLoader{items: sampleItems()}
	uc, collection := newUsecase(t, loader, embedding.NewMockConnector(zap.NewNop()))

	first, err := uc.Index(ctx)
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Equal(t, 3, first.Indexed)
	assert.Equal(t, 3, first.Total)

	second, err := uc.Index(ctx)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, 3, second.Total)
	assert.Equal(t, 1, loader.calls)

	count, err := collection.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIndex_ConcurrentRunsIndexOnce(t *testing.T) {
	ctx := context.Background()
	uc, collection := newUsecase(t, &staticLoader{items: sampleItems()}, embedding.NewMockConnector(zap.NewNop()))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Index(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := collection.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIndex_DropsFailedEmbeddingsAndDuplicates(t *testing.T) {
	ctx := context.Background()
	items := append(sampleItems(), entity.KnowledgeItem{
		TicketID: "T-001", Title: "Duplicado", Description: "x", Category: "y", Solution: "z", ResolutionTime: "1 hora",
	})
	embedder := &failingEmbedder{
		inner:   embedding.NewMockConnector(zap.NewNop()),
		markers: []string{"Reporte lento"},
	}
	uc, collection := newUsecase(t, &staticLoader{items: items}, embedder)

	result, err := uc.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Indexed)
	assert.Equal(t, 1, result.Dropped)
	assert.Equal(t, 1, result.Duplicates)

	count, err := collection.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndex_MissingKnowledgeBase(t *testing.T) {
	loader := kb.NewFileLoader(filepath.Join(t.TempDir(), "missing.json"))
	uc, _ := newUsecase(t, loader, embedding.NewMockConnector(zap.NewNop()))

	_, err := uc.Index(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrKnowledgeBaseNotFound)
}

func TestIndex_FromFile(t *testing.T) {
	data, err := json.Marshal(sampleItems())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "Knowledge_base.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	uc, _ := newUsecase(t, kb.NewFileLoader(path), embedding.NewMockConnector(zap.NewNop()))
	result, err := uc.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUsecase(t, &staticLoader{items: sampleItems()}, embedding.NewMockConnector(zap.NewNop()))
	_, err := uc.Index(ctx)
	require.NoError(t, err)

	docs := uc.Retrieve(ctx, "Los pagos con tarjeta fallan en la pasarela", 3)
	require.Len(t, docs, 3)

	top := docs[0]
	assert.Equal(t, "T-001", top.TicketID)
	assert.Equal(t, "Caída de pasarela de pagos", top.Title)
	assert.Equal(t, "Pagos", top.Category)
	assert.Equal(t, "Reinicio del gateway (Tiempo de resolución histórico: 2 horas)", top.SolutionSummary)

	for i, d := range docs {
		assert.Greater(t, d.SimilarityScore, 0.0)
		assert.LessOrEqual(t, d.SimilarityScore, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, docs[i-1].SimilarityScore, d.SimilarityScore)
		}
	}
}

func TestRetrieve_LimitsToK(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUsecase(t, &staticLoader{items: sampleItems()}, embedding.NewMockConnector(zap.NewNop()))
	_, err := uc.Index(ctx)
	require.NoError(t, err)

	assert.Len(t, uc.Retrieve(ctx, "pagos", 1), 1)
}

func TestRetrieve_DegradesToEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("embedding failure", func(t *testing.T) {
		embedder := &failingEmbedder{inner: embedding.NewMockConnector(zap.NewNop()), markers: []string{"pagos"}}
		uc, _ := newUsecase(t, &staticLoader{}, embedder)

		docs := uc.Retrieve(ctx, "pagos", 5)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("query failure", func(t *testing.T) {
		store := repository.NewVectorStoreMemory()
		collection, err := store.GetOrCreateCollection(ctx, "c")
		require.NoError(t, err)

		uc := NewUsecase(brokenCollection{collection}, &staticLoader{}, embedding.NewMockConnector(zap.NewNop()), zap.NewNop())
		docs := uc.Retrieve(ctx, "pagos", 5)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})

	t.Run("empty collection", func(t *testing.T) {
		uc, _ := newUsecase(t, &staticLoader{}, embedding.NewMockConnector(zap.NewNop()))
		assert.Empty(t, uc.Retrieve(ctx, "pagos", 5))
	})
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity(0))
	assert.Equal(t, 0.5, Similarity(1))

	prev := Similarity(0)
	for d := 0.25; d < 50; d += 0.25 {
		s := Similarity(d)
		assert.Less(t, s, prev, "distance %v", d)
		assert.Greater(t, s, 0.0)
		prev = s
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, Score(0))
	assert.Equal(t, 0.3333, Score(2))
	assert.Equal(t, 0.6667, Score(0.5))
	assert.Equal(t, minScore, Score(1e9))
}

func TestToRAGDocument_MissingMetadata(t *testing.T) {
	doc := toRAGDocument(entity.VectorMatch{
		ID:       "x",
		Document: "Título: Caída total.\nDescripción: algo.",
		Metadata: map[string]string{},
		Distance: 1,
	})

	assert.Equal(t, "N/A", doc.TicketID)
	assert.Equal(t, "Caída total", doc.Title)
	assert.Equal(t, "N/A", doc.Category)
	assert.Equal(t, "N/A", doc.SolutionSummary)
	assert.Equal(t, 0.5, doc.SimilarityScore)
}
