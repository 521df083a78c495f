package knowledge

import (
	"context"

	"github.com/futig/ticket-classifier/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, bool)
}

type KnowledgeLoader interface {
	Load() ([]entity.KnowledgeItem, error)
}
