package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TicketInput is a ticket submitted for classification
type TicketInput struct {
	Title              string `json:"titulo"`
	Description        string `json:"descripcion"`
	AffectedClient     string `json:"cliente_afectado"`
	AffectedPercentage int    `json:"porcentaje_afectado"`
	IncidentType       string `json:"tipo_incidente"`
	ContextInfo        string `json:"informacion_contextual,omitempty"`
}

// TicketID accepts both string and numeric ids from the knowledge base file
type TicketID string

func (id *TicketID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("%w: ticket_id", ErrMissingField)
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TicketID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: ticket_id must be a string or a number", ErrInvalidFormat)
	}
	*id = TicketID(n.String())
	return nil
}

func (id TicketID) String() string {
	return string(id)
}

// KnowledgeItem is a historical ticket from the knowledge base file
type KnowledgeItem struct {
	TicketID       TicketID `json:"ticket_id"`
	Title          string   `json:"titulo"`
	Description    string   `json:"descripcion"`
	Category       string   `json:"categoria"`
	Solution       string   `json:"solucion"`
	ResolutionTime string   `json:"tiempo_resolucion"`
}

// RAGDocument is a historical ticket retrieved as evidence for a classification
type RAGDocument struct {
	TicketID        string  `json:"ticket_id"`
	Title           string  `json:"titulo"`
	Category        string  `json:"categoria"`
	SolutionSummary string  `json:"solucion_resumen"`
	SimilarityScore float64 `json:"similitud_score"`
}

// TicketClassification is the classification contract returned to callers
type TicketClassification struct {
	Priority            Priority `json:"prioridad"`
	Urgency             string   `json:"urgencia"`
	SLAFirstResponse    string   `json:"sla_primera_respuesta"`
	SLAAssistance       string   `json:"sla_asistencia"`
	SLAResolution       string   `json:"sla_solucion"`
	SuggestedCategory   string   `json:"categoria_sugerida"`
	EstimatedResolution string   `json:"tiempo_estimado_resolucion"`
	Confidence          float64  `json:"nivel_confianza"`
	Justification       string   `json:"justificacion_modelo"`

	// Evidence is never produced by the model, it is attached from retrieval
	Evidence []RAGDocument `json:"documentos_rag_usados"`
}

type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
)

// Rank orders priorities, lower is more severe. Unknown priorities rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	case PriorityP4:
		return 4
	default:
		return 5
	}
}

func (p Priority) IsValid() bool {
	return p.Rank() <= 4
}
