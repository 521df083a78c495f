package knowledge

import (
	"math"

	"github.com/futig/ticket-classifier/internal/entity"
	kb "github.com/futig/ticket-classifier/internal/knowledge"
)

const (
	notAvailable = "N/A"

	// minScore keeps rounded scores inside (0,1] for very distant neighbours
	minScore = 0.0001
)

// Similarity converts a vector distance into a score in (0,1]
func Similarity(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return 1 / (1 + distance)
}

// Score is Similarity rounded to 4 decimals
func Score(distance float64) float64 {
	score := math.Round(Similarity(distance)*10000) / 10000
	if score < minScore {
		return minScore
	}
	return score
}

func toRAGDocument(m entity.VectorMatch) entity.RAGDocument {
	title := m.Metadata[entity.MetaTitle]
	if title == "" {
		title = kb.TitleFromText(m.Document)
	}

	return entity.RAGDocument{
		TicketID:        metaOrNA(m.Metadata, entity.MetaTicketID),
		Title:           title,
		Category:        metaOrNA(m.Metadata, entity.MetaCategory),
		SolutionSummary: metaOrNA(m.Metadata, entity.MetaSolution),
		SimilarityScore: Score(m.Distance),
	}
}

func metaOrNA(meta map[string]string, key string) string {
	if v, ok := meta[key]; ok && v != "" {
		return v
	}
	return notAvailable
}
