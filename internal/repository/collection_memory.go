package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/futig/ticket-classifier/internal/entity"
)

var _ VectorStore = &VectorStoreMemory{}
var _ Collection = &CollectionMemory{}

// VectorStoreMemory is an in-process vector store. Contents live as long as
// the process.
type VectorStoreMemory struct {
	mu          sync.Mutex
	collections map[string]*CollectionMemory
}

func NewVectorStoreMemory() *VectorStoreMemory {
	return &VectorStoreMemory{
		collections: make(map[string]*CollectionMemory),
	}
}

func (s *VectorStoreMemory) GetOrCreateCollection(_ context.Context, name string) (Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name", entity.ErrMissingField)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		return c, nil
	}

	c := &CollectionMemory{
		name: name,
		ids:  make(map[string]struct{}),
	}
	s.collections[name] = c
	return c, nil
}

// CollectionMemory answers nearest-neighbour queries by exhaustive search
type CollectionMemory struct {
	name string

	mu      sync.RWMutex
	records []entity.VectorRecord
	ids     map[string]struct{}
}

func (c *CollectionMemory) Name() string {
	return c.name
}

func (c *CollectionMemory) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), nil
}

func (c *CollectionMemory) Add(_ context.Context, records []entity.VectorRecord) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inserted := 0
	for _, rec := range records {
		if rec.ID == "" {
			return inserted, fmt.Errorf("%w: record id", entity.ErrMissingField)
		}
		if len(rec.Embedding) == 0 {
			return inserted, fmt.Errorf("%w: embedding of record %s", entity.ErrMissingField, rec.ID)
		}
		if _, exists := c.ids[rec.ID]; exists {
			continue
		}

		stored := entity.VectorRecord{
			ID:        rec.ID,
			Document:  rec.Document,
			Metadata:  make(map[string]string, len(rec.Metadata)),
			Embedding: append([]float32(nil), rec.Embedding...),
		}
		for k, v := range rec.Metadata {
			stored.Metadata[k] = v
		}

		c.records = append(c.records, stored)
		c.ids[rec.ID] = struct{}{}
		inserted++
	}

	return inserted, nil
}

func (c *CollectionMemory) Query(_ context.Context, embedding []float32, k int) ([]entity.VectorMatch, error) {
	if k <= 0 {
		return []entity.VectorMatch{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := make([]entity.VectorMatch, 0, len(c.records))
	for _, rec := range c.records {
		if len(rec.Embedding) != len(embedding) {
			return nil, fmt.Errorf("%w: expected %d dimensions, got %d", entity.ErrInvalidParameter, len(rec.Embedding), len(embedding))
		}

		metadata := make(map[string]string, len(rec.Metadata))
		for key, v := range rec.Metadata {
			metadata[key] = v
		}

		matches = append(matches, entity.VectorMatch{
			ID:       rec.ID,
			Document: rec.Document,
			Metadata: metadata,
			Distance: euclidean(rec.Embedding, embedding),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
