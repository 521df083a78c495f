// Package logger carries a request-scoped zap logger through the context.
package logger

import (
	"context"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// AddFields returns a context whose logger carries the extra fields
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction names the flow a log line belongs to
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

func WithClassificationID(ctx context.Context, id string) context.Context {
	return AddFields(ctx, zap.String("classification_id", id))
}

// TicketFields describes a ticket without its free text
func TicketFields(ticket entity.TicketInput) []zap.Field {
	return []zap.Field{
		zap.String("client", ticket.AffectedClient),
		zap.Int("affected_percentage", ticket.AffectedPercentage),
		zap.String("incident_type", ticket.IncidentType),
		zap.Int("title_length", len(ticket.Title)),
	}
}
