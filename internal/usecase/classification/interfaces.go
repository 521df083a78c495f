package classification

import (
	"context"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/pkg/prompt"
)

type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) []entity.RAGDocument
}

type PromptBuilder interface {
	Build(ticket entity.TicketInput, docs []entity.RAGDocument) prompt.Prompt
}

type LLMConnector interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}
