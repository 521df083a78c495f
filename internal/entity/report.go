package entity

import "time"

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatPDF:
		return true
	default:
		return false
	}
}

// ErrorResponse represents an error response body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse represents the health endpoint body
type HealthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// ClientSummary is a client entry exposed for form dropdowns
type ClientSummary struct {
	Name           string `json:"nombre"`
	MRR            int    `json:"mrr"`
	State          string `json:"estado"`
	CriticalImpact bool   `json:"impacto_critico"`
}

type ListClientsResponse struct {
	Clients []ClientSummary `json:"clientes"`
}

// ClassificationReport is a classified ticket rendered as a document
type ClassificationReport struct {
	ID             string
	GeneratedAt    time.Time
	Ticket         TicketInput
	Classification *TicketClassification
}
