// Package rules holds the static business tables consulted while classifying
// tickets: priority/urgency mapping, the SLA matrix and client business impact.
package rules

import (
	"fmt"

	"github.com/futig/ticket-classifier/internal/entity"
)

// Urgency labels as presented to the model and returned to callers
const (
	UrgencyCritical = "Crítica"
	UrgencyHigh     = "Alta"
	UrgencyMedium   = "Media"
	UrgencyLow      = "Baja"
)

// SLA is the set of service level targets for one urgency tier
type SLA struct {
	FirstResponse string
	Assistance    string
	Resolution    string
}

// Tier ties a priority to its urgency label and SLA targets
type Tier struct {
	Priority entity.Priority
	Urgency  string
	SLA      SLA
}

// Tiers is ordered from the most to the least severe priority
var Tiers = []Tier{
	{
		Priority: entity.PriorityP1,
		Urgency:  UrgencyCritical,
		SLA: SLA{
			FirstResponse: "15 minutos",
			Assistance:    "30 minutos",
			Resolution:    "1 hora",
		},
	},
	{
		Priority: entity.PriorityP2,
		Urgency:  UrgencyHigh,
		SLA: SLA{
			FirstResponse: "30 minutos (Horario Laboral)",
			Assistance:    "1 hora (Horario Laboral)",
			Resolution:    "4 horas",
		},
	},
	{
		Priority: entity.PriorityP3,
		Urgency:  UrgencyMedium,
		SLA: SLA{
			FirstResponse: "1 hora (Horario Laboral)",
			Assistance:    "4 horas (Horario Laboral)",
			Resolution:    "24 horas",
		},
	},
	{
		Priority: entity.PriorityP4,
		Urgency:  UrgencyLow,
		SLA: SLA{
			FirstResponse: "4 horas (Horario Laboral)",
			Assistance:    "1 día hábil",
			Resolution:    "72 horas",
		},
	},
}

// Band is an inclusive range of affected-user percentages mapped to a priority
type Band struct {
	Min      int
	Max      int
	Priority entity.Priority
}

// Bands is ordered from the most to the least severe priority. Each boundary
// value (81, 51, 21) belongs to the higher band.
var Bands = []Band{
	{Min: 81, Max: 100, Priority: entity.PriorityP1},
	{Min: 51, Max: 80, Priority: entity.PriorityP2},
	{Min: 21, Max: 50, Priority: entity.PriorityP3},
	{Min: 0, Max: 20, Priority: entity.PriorityP4},
}

// PriorityForPercentage returns the band priority for an affected percentage.
// Values outside [0,100] are clamped.
func PriorityForPercentage(percentage int) entity.Priority {
	for _, band := range Bands {
		if percentage >= band.Min {
			return band.Priority
		}
	}
	return entity.PriorityP4
}

// TierFor returns the tier of a priority
func TierFor(priority entity.Priority) (Tier, error) {
	for _, tier := range Tiers {
		if tier.Priority == priority {
			return tier, nil
		}
	}
	return Tier{}, fmt.Errorf("%w: unknown priority %q", entity.ErrInvalidParameter, priority)
}

// UrgencyFor returns the urgency label of a priority
func UrgencyFor(priority entity.Priority) (string, error) {
	tier, err := TierFor(priority)
	if err != nil {
		return "", err
	}
	return tier.Urgency, nil
}

// PriorityForUrgency returns the priority of an urgency label
func PriorityForUrgency(urgency string) (entity.Priority, error) {
	for _, tier := range Tiers {
		if tier.Urgency == urgency {
			return tier.Priority, nil
		}
	}
	return "", fmt.Errorf("%w: unknown urgency %q", entity.ErrInvalidParameter, urgency)
}

// SLAFor returns the SLA targets of a priority
func SLAFor(priority entity.Priority) (SLA, error) {
	tier, err := TierFor(priority)
	if err != nil {
		return SLA{}, err
	}
	return tier.SLA, nil
}

// Urgencies lists the urgency labels, most severe first
func Urgencies() []string {
	labels := make([]string, 0, len(Tiers))
	for _, tier := range Tiers {
		labels = append(labels, tier.Urgency)
	}
	return labels
}
