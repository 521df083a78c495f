// Package prompt assembles the classification prompt sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/futig/ticket-classifier/internal/rules"
)

const preamble = "ERES UN INGENIERO DE SOPORTE EXPERTO Y CLASIFICADOR DE TICKETS.\n" +
	"Usa estrictamente las reglas de negocio y la evidencia histórica (RAG).\n" +
	"DEVUELVE ÚNICAMENTE el JSON final, SIN texto adicional.\n"

const resolutionTimeRules = "IMPORTANTE:\n" +
	"- El campo 'tiempo_estimado_resolucion' NO ES el SLA.\n" +
	"- Debe calcularse usando EXCLUSIVAMENTE los tiempos históricos recuperados por el RAG.\n" +
	"- Si los documentos históricos muestran tiempos entre 40 y 60 minutos, el estimado debe estar en ese rango.\n" +
	"- Solo usar el SLA si NO existe evidencia histórica (RAG=vacío o similitud < 0.5).\n" +
	"- Nunca inventes tiempos que no se basen en evidencia.\n"

// Builder assembles prompts from the business tables, the priority policy
// and the output schema
type Builder struct {
	clients   *rules.ClientTable
	policy    rules.PriorityPolicy
	schema    string
	threshold float64
}

func NewBuilder(clients *rules.ClientTable, policy rules.PriorityPolicy, schema string, threshold float64) *Builder {
	return &Builder{
		clients:   clients,
		policy:    policy,
		schema:    schema,
		threshold: threshold,
	}
}

// Prompt is an assembled prompt together with the evidence verdict
type Prompt struct {
	Text             string
	RelevantEvidence bool
}

// Build assembles the prompt in a fixed order: preamble, business rules,
// ticket, evidence, resolution-time rules and the response schema.
func (b *Builder) Build(ticket entity.TicketInput, docs []entity.RAGDocument) Prompt {
	evidence, relevant := FormatEvidence(docs, b.threshold)

	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("\n")
	sb.WriteString(b.BusinessRules())
	sb.WriteString("\n")
	sb.WriteString(TicketBlock(ticket))
	sb.WriteString("\n")
	sb.WriteString(evidence)
	sb.WriteString("\n")
	sb.WriteString(resolutionTimeRules)
	sb.WriteString("\n")
	sb.WriteString("--- FORMATO DE RESPUESTA (JSON) ---\n")
	sb.WriteString("Debes cumplir EXACTAMENTE con el siguiente esquema JSON:\n")
	sb.WriteString(b.schema)
	sb.WriteString("\n")

	return Prompt{Text: sb.String(), RelevantEvidence: relevant}
}

// BusinessRules renders the SLA matrix, the priority policy and the client boosts
func (b *Builder) BusinessRules() string {
	var sb strings.Builder
	sb.WriteString("--- REGLAS DE NEGOCIO Y SLA (Matriz ANS) ---\n")

	sb.WriteString("\n## REGLAS BÁSICAS DE PRIORIDAD (ANS):\n")
	for _, tier := range rules.Tiers {
		fmt.Fprintf(&sb, "- **%s (%s)**: Solución en %s. 1ª Respuesta: %s. Asistencia: %s.\n",
			tier.Priority, tier.Urgency, tier.SLA.Resolution, tier.SLA.FirstResponse, tier.SLA.Assistance)
	}

	sb.WriteString("\n## PRIORIDAD POR PORCENTAJE DE AFECTACIÓN:\n")
	sb.WriteString(b.policy.Instructions())

	sb.WriteString("\n## BOOSTS DE PRIORIDAD POR CLIENTE:\n")
	sb.WriteString("Si un cliente está en riesgo de churn o con impacto crítico, aumenta la prioridad.\n")
	for _, client := range b.clients.Clients() {
		hints := client.BoostHints()
		if len(hints) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- %s ($%d MRR): %s\n", client.Name, client.MRR, strings.Join(hints, ", "))
	}

	return sb.String()
}

// TicketBlock renders the ticket fields
func TicketBlock(ticket entity.TicketInput) string {
	var sb strings.Builder
	sb.WriteString("--- TICKET NUEVO ---\n")
	fmt.Fprintf(&sb, "Título: %s\n", ticket.Title)
	fmt.Fprintf(&sb, "Descripción: %s\n", ticket.Description)
	fmt.Fprintf(&sb, "Cliente: %s\n", ticket.AffectedClient)
	fmt.Fprintf(&sb, "Afectación: %d%%\n", ticket.AffectedPercentage)
	fmt.Fprintf(&sb, "Tipo de Incidente: %s\n", ticket.IncidentType)
	if ctx := strings.TrimSpace(ticket.ContextInfo); ctx != "" {
		fmt.Fprintf(&sb, "Información Contextual: %s\n", ctx)
	}
	return sb.String()
}
