package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/futig/ticket-classifier/internal/entity"
)

// Validator validates classification requests
type Validator struct {
	maxFieldLength int
}

func NewTicketValidator(maxFieldLength int) *Validator {
	return &Validator{maxFieldLength: maxFieldLength}
}

func (v *Validator) ValidateTicketInput(req *entity.TicketInput) error {
	if req.Title == "" {
		return fmt.Errorf("%w: titulo", entity.ErrMissingField)
	}
	if req.Description == "" {
		return fmt.Errorf("%w: descripcion", entity.ErrMissingField)
	}

	if req.AffectedPercentage < 0 || req.AffectedPercentage > 100 {
		return fmt.Errorf("%w: porcentaje_afectado must be between 0 and 100, got %d",
			entity.ErrInvalidParameter, req.AffectedPercentage)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"titulo", req.Title},
		{"descripcion", req.Description},
		{"cliente_afectado", req.AffectedClient},
		{"tipo_incidente", req.IncidentType},
		{"informacion_contextual", req.ContextInfo},
	}
	for _, f := range fields {
		if n := utf8.RuneCountInString(f.value); n > v.maxFieldLength {
			return fmt.Errorf("%w: %s is %d characters (max %d)",
				entity.ErrInvalidParameter, f.name, n, v.maxFieldLength)
		}
	}

	return nil
}

// NormalizeTicketInput trims surrounding whitespace from every text field
func NormalizeTicketInput(req *entity.TicketInput) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.AffectedClient = strings.TrimSpace(req.AffectedClient)
	req.IncidentType = strings.TrimSpace(req.IncidentType)
	req.ContextInfo = strings.TrimSpace(req.ContextInfo)
}
