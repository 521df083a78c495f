package classify

import (
	"context"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/pkg/formatter"
	"github.com/futig/ticket-classifier/internal/rules"
)

type ClassificationUsecase interface {
	Classify(ctx context.Context, ticket entity.TicketInput) (*entity.TicketClassification, error)
	Available() bool
}

type ClientDirectory interface {
	Clients() []rules.ClientImpact
}

type FormatterFactory interface {
	Create(format entity.ResultFormat) (formatter.Formatter, error)
}
