package rules

import (
	"fmt"
	"strings"

	"github.com/futig/ticket-classifier/internal/entity"
)

const (
	PolicyStrict   = "strict"
	PolicyWeighted = "weighted"
)

// PriorityPolicy decides the final priority of a ticket from the percentage
// band and the priority proposed by the model.
type PriorityPolicy interface {
	Name() string
	Resolve(percentage int, proposed entity.Priority) entity.Priority
	// Instructions is the banding rule text given to the model
	Instructions() string
}

// NewPriorityPolicy returns the policy registered under name
func NewPriorityPolicy(name string) (PriorityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyStrict, "":
		return StrictPolicy{}, nil
	case PolicyWeighted:
		return WeightedPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown priority policy %q", entity.ErrInvalidParameter, name)
	}
}

// StrictPolicy determines priority from the affected percentage only.
type StrictPolicy struct{}

func (StrictPolicy) Name() string { return PolicyStrict }

func (StrictPolicy) Resolve(percentage int, _ entity.Priority) entity.Priority {
	return PriorityForPercentage(percentage)
}

func (StrictPolicy) Instructions() string {
	var b strings.Builder
	b.WriteString("La prioridad se determina EXCLUSIVAMENTE por el porcentaje de usuarios afectados, sin excepciones:\n")
	writeBands(&b)
	b.WriteString("Los factores del cliente NO modifican la prioridad; úsalos solo en la justificación.\n")
	return b.String()
}

// WeightedPolicy lets the model raise priority above the band for client
// risk factors but never lowers it below the band.
type WeightedPolicy struct{}

func (WeightedPolicy) Name() string { return PolicyWeighted }

func (WeightedPolicy) Resolve(percentage int, proposed entity.Priority) entity.Priority {
	band := PriorityForPercentage(percentage)
	if proposed.IsValid() && proposed.Rank() < band.Rank() {
		return proposed
	}
	return band
}

func (WeightedPolicy) Instructions() string {
	var b strings.Builder
	b.WriteString("La prioridad base se determina por el porcentaje de usuarios afectados:\n")
	writeBands(&b)
	b.WriteString("Puedes SUBIR la prioridad base por riesgo de churn o impacto crítico del cliente, nunca bajarla.\n")
	return b.String()
}

func writeBands(b *strings.Builder) {
	for _, band := range Bands {
		fmt.Fprintf(b, "- %d%% a %d%% → %s\n", band.Min, band.Max, band.Priority)
	}
}
