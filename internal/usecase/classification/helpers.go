package classification

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/rules"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// BuildQuery builds the semantic search text for a ticket. The optional hint
// biases retrieval towards the technical domain of the knowledge base.
func BuildQuery(ticket entity.TicketInput, hint string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Título: %s. ", ticket.Title)
	fmt.Fprintf(&b, "Descripción: %s. ", ticket.Description)
	fmt.Fprintf(&b, "Tipo de incidente: %s. ", ticket.IncidentType)
	fmt.Fprintf(&b, "Afectación: %d%%.", ticket.AffectedPercentage)
	if hint = strings.TrimSpace(hint); hint != "" {
		b.WriteString(" ")
		b.WriteString(hint)
	}
	return b.String()
}

// Reconcile enforces the business tables on a validated classification:
// the final priority comes from the policy, urgency and the SLA triple follow
// the priority, and without relevant evidence the estimated resolution time
// is the resolution SLA.
func Reconcile(
	ctx context.Context,
	c *entity.TicketClassification,
	ticket entity.TicketInput,
	policy rules.PriorityPolicy,
	relevantEvidence bool,
) error {
	proposed := c.Priority
	final := policy.Resolve(ticket.AffectedPercentage, proposed)

	tier, err := rules.TierFor(final)
	if err != nil {
		return err
	}

	if final != proposed || c.Urgency != tier.Urgency || c.SLAResolution != tier.SLA.Resolution {
		ctxzap.Info(ctx, "classification adjusted to business rules",
			zap.String("policy", policy.Name()),
			zap.String("proposed_priority", string(proposed)),
			zap.String("final_priority", string(final)),
			zap.String("proposed_urgency", c.Urgency),
		)
	}

	c.Priority = tier.Priority
	c.Urgency = tier.Urgency
	c.SLAFirstResponse = tier.SLA.FirstResponse
	c.SLAAssistance = tier.SLA.Assistance
	c.SLAResolution = tier.SLA.Resolution

	if !relevantEvidence {
		c.EstimatedResolution = tier.SLA.Resolution
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
