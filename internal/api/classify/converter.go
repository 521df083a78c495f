package classify

import (
	"fmt"
	"time"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/rules"
)

func toClientSummaries(clients []rules.ClientImpact) []entity.ClientSummary {
	out := make([]entity.ClientSummary, 0, len(clients))
	for _, c := range clients {
		out = append(out, entity.ClientSummary{
			Name:           c.Name,
			MRR:            c.MRR,
			State:          c.State,
			CriticalImpact: c.CriticalImpact,
		})
	}
	return out
}

func toReport(id string, ticket entity.TicketInput, c *entity.TicketClassification) *entity.ClassificationReport {
	return &entity.ClassificationReport{
		ID:             id,
		GeneratedAt:    time.Now(),
		Ticket:         ticket,
		Classification: c,
	}
}

// ticketRequest is the wire form of a ticket. Pointers tell an absent field
// from a zero value: a missing porcentaje_afectado must not read as 0%.
type ticketRequest struct {
	Title              *string `json:"titulo"`
	Description        *string `json:"descripcion"`
	AffectedClient     *string `json:"cliente_afectado"`
	AffectedPercentage *int    `json:"porcentaje_afectado"`
	IncidentType       *string `json:"tipo_incidente"`
	ContextInfo        string  `json:"informacion_contextual"`
}

func toTicketInput(req ticketRequest) (entity.TicketInput, error) {
	required := []struct {
		name    string
		present bool
	}{
		{"titulo", req.Title != nil},
		{"descripcion", req.Description != nil},
		{"cliente_afectado", req.AffectedClient != nil},
		{"porcentaje_afectado", req.AffectedPercentage != nil},
		{"tipo_incidente", req.IncidentType != nil},
	}
	for _, f := range required {
		if !f.present {
			return entity.TicketInput{}, fmt.Errorf("%w: %s", entity.ErrMissingField, f.name)
		}
	}

	return entity.TicketInput{
		Title:              *req.Title,
		Description:        *req.Description,
		AffectedClient:     *req.AffectedClient,
		AffectedPercentage: *req.AffectedPercentage,
		IncidentType:       *req.IncidentType,
		ContextInfo:        req.ContextInfo,
	}, nil
}
