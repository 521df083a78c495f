package repository

import (
	"context"
	"fmt"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

var _ VectorStore = &VectorStorePostgres{}
var _ Collection = &CollectionPostgres{}

const (
	upsertCollectionQuery = `INSERT INTO vector_collections (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`

	countDocumentsQuery = `SELECT count(*) FROM vector_documents WHERE collection_name = $1`

	insertDocumentQuery = `
INSERT INTO vector_documents (collection_name, id, document, metadata, embedding)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (collection_name, id) DO NOTHING`

	nearestDocumentsQuery = `
SELECT id, document, metadata, embedding <-> $2 AS distance
FROM vector_documents
WHERE collection_name = $1
ORDER BY distance
LIMIT $3`
)

// VectorStorePostgres implements VectorStore using PostgreSQL with pgvector
type VectorStorePostgres struct {
	db *pgxpool.Pool
}

func NewVectorStorePostgres(db *pgxpool.Pool) *VectorStorePostgres {
	return &VectorStorePostgres{db: db}
}

func (s *VectorStorePostgres) GetOrCreateCollection(ctx context.Context, name string) (Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name", entity.ErrMissingField)
	}

	if _, err := s.db.Exec(ctx, upsertCollectionQuery, name); err != nil {
		return nil, fmt.Errorf("get or create collection: %w", err)
	}

	return &CollectionPostgres{db: s.db, name: name}, nil
}

// CollectionPostgres is a named collection backed by the vector_documents table
type CollectionPostgres struct {
	db   *pgxpool.Pool
	name string
}

func (c *CollectionPostgres) Name() string {
	return c.name
}

func (c *CollectionPostgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := c.db.QueryRow(ctx, countDocumentsQuery, c.name).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

func (c *CollectionPostgres) Add(ctx context.Context, records []entity.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, rec := range records {
		metadata := rec.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}
		batch.Queue(insertDocumentQuery, c.name, rec.ID, rec.Document, metadata, pgvector.NewVector(rec.Embedding))
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for _, rec := range records {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("insert document %s: %w", rec.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit documents: %w", err)
	}

	return inserted, nil
}

func (c *CollectionPostgres) Query(ctx context.Context, embedding []float32, k int) ([]entity.VectorMatch, error) {
	if k <= 0 {
		return []entity.VectorMatch{}, nil
	}

	rows, err := c.db.Query(ctx, nearestDocumentsQuery, c.name, pgvector.NewVector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("query nearest documents: %w", err)
	}
	defer rows.Close()

	matches := make([]entity.VectorMatch, 0, k)
	for rows.Next() {
		var m entity.VectorMatch
		if err := rows.Scan(&m.ID, &m.Document, &m.Metadata, &m.Distance); err != nil {
			return nil, fmt.Errorf("scan nearest document: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nearest documents: %w", err)
	}

	return matches, nil
}
