package prompt

import (
	"fmt"
	"strings"

	"github.com/futig/ticket-classifier/internal/entity"
)

// NoEvidenceText replaces the evidence block when retrieval found nothing relevant
const NoEvidenceText = "No se encontraron tickets relevantes. No inventes evidencia histórica. Clasifica solo con las reglas de negocio."

// DefaultRelevanceThreshold is the similarity a document needs to count as evidence
const DefaultRelevanceThreshold = 0.5

// FormatEvidence renders retrieved documents for the prompt, in retrieval
// order. It reports whether at least one document reaches the threshold;
// when none does the fallback text is returned instead.
func FormatEvidence(docs []entity.RAGDocument, threshold float64) (string, bool) {
	if !HasRelevantEvidence(docs, threshold) {
		return NoEvidenceText, false
	}

	var b strings.Builder
	b.WriteString("--- EVIDENCIA DE TICKETS HISTÓRICOS (RAG) ---\n")
	for _, doc := range docs {
		fmt.Fprintf(&b, "- ID: %s (Similitud: %.2f)\n", doc.TicketID, doc.SimilarityScore)
		fmt.Fprintf(&b, "  Título: %s\n", doc.Title)
		fmt.Fprintf(&b, "  Categoría: %s\n", doc.Category)
		fmt.Fprintf(&b, "  Solución Histórica: %s\n", doc.SolutionSummary)
		b.WriteString("  --------------------------------------------------\n")
	}

	return b.String(), true
}

// HasRelevantEvidence reports whether any document scores at or above threshold
func HasRelevantEvidence(docs []entity.RAGDocument, threshold float64) bool {
	for _, doc := range docs {
		if doc.SimilarityScore >= threshold {
			return true
		}
	}
	return false
}
