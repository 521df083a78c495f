package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/rules"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const providerMock = "mock"

var (
	percentageRe     = regexp.MustCompile(`Afectación: (\d+)%`)
	historicalTimeRe = regexp.MustCompile(`Tiempo de resolución histórico: ([^)\n]+)\)`)
	categoryRe       = regexp.MustCompile(`(?m)^  Categoría: (.+)$`)
)

// MockConnector - deterministic stand-in for a chat model. It reads the
// affected percentage and the first historical ticket from the prompt and
// answers with a schema-conforming classification.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Provider() string {
	return providerMock
}

func (m *MockConnector) Model() string {
	return providerMock
}

func (m *MockConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting classification from LLM", zap.Int("prompt_length", len(prompt)))

	percentage := 0
	if match := percentageRe.FindStringSubmatch(prompt); match != nil {
		percentage, _ = strconv.Atoi(match[1])
	}

	tier, err := rules.TierFor(rules.PriorityForPercentage(percentage))
	if err != nil {
		return "", err
	}

	category := "General"
	if match := categoryRe.FindStringSubmatch(prompt); match != nil {
		category = match[1]
	}

	estimate := tier.SLA.Resolution
	justification := "Clasificación basada en el porcentaje de afectación, sin evidencia histórica."
	if match := historicalTimeRe.FindStringSubmatch(prompt); match != nil {
		estimate = match[1]
		justification = "Clasificación basada en el porcentaje de afectación y en el ticket histórico más similar."
	}

	out := entity.TicketClassification{
		Priority:            tier.Priority,
		Urgency:             tier.Urgency,
		SLAFirstResponse:    tier.SLA.FirstResponse,
		SLAAssistance:       tier.SLA.Assistance,
		SLAResolution:       tier.SLA.Resolution,
		SuggestedCategory:   category,
		EstimatedResolution: estimate,
		Confidence:          75,
		Justification:       justification,
	}

	// the model contract has no evidence field
	raw, err := json.Marshal(struct {
		entity.TicketClassification
		Evidence []entity.RAGDocument `json:"documentos_rag_usados,omitempty"`
	}{TicketClassification: out})
	if err != nil {
		return "", fmt.Errorf("marshal mock classification: %w", err)
	}

	ctxzap.Info(ctx, "[MOCK] classification generated", zap.String("priority", string(out.Priority)))

	return string(raw), nil
}
