package formatter

import (
	"fmt"

	"github.com/futig/ticket-classifier/internal/entity"
)

const baseTitle = "Clasificación de ticket"

type Formatter interface {
	Format(report *entity.ClassificationReport) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}

type field struct {
	label string
	value string
}

func ticketFields(t entity.TicketInput) []field {
	fields := []field{
		{"Título", t.Title},
		{"Descripción", t.Description},
		{"Cliente", t.AffectedClient},
		{"Afectación", fmt.Sprintf("%d%%", t.AffectedPercentage)},
		{"Tipo de incidente", t.IncidentType},
	}
	if t.ContextInfo != "" {
		fields = append(fields, field{"Información contextual", t.ContextInfo})
	}
	return fields
}

func classificationFields(c *entity.TicketClassification) []field {
	return []field{
		{"Prioridad", string(c.Priority)},
		{"Urgencia", c.Urgency},
		{"SLA primera respuesta", c.SLAFirstResponse},
		{"SLA asistencia", c.SLAAssistance},
		{"SLA solución", c.SLAResolution},
		{"Categoría sugerida", c.SuggestedCategory},
		{"Tiempo estimado de resolución", c.EstimatedResolution},
		{"Nivel de confianza", fmt.Sprintf("%.0f%%", c.Confidence)},
	}
}
