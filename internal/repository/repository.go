package repository

import (
	"context"

	"github.com/futig/ticket-classifier/internal/entity"
)

// VectorStore hands out named vector collections
type VectorStore interface {
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)
}

// Collection stores documents with metadata and embeddings keyed by id
type Collection interface {
	Name() string
	Count(ctx context.Context) (int, error)
	// Add inserts records; records whose id already exists are skipped
	Add(ctx context.Context, records []entity.VectorRecord) (int, error)
	// Query returns the k nearest records by Euclidean distance, nearest first
	Query(ctx context.Context, embedding []float32, k int) ([]entity.VectorMatch, error)
}
