package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/futig/ticket-classifier/internal/entity"
)

// FileLoader reads the historical ticket knowledge base from a JSON file
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Path() string {
	return l.path
}

// Load reads every knowledge item from the file. The file must hold a JSON
// array of records with ticket_id, titulo, descripcion, categoria, solucion
// and tiempo_resolucion.
func (l *FileLoader) Load() ([]entity.KnowledgeItem, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrKnowledgeBaseNotFound, l.path)
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var items []entity.KnowledgeItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse knowledge base JSON: %w", err)
	}

	for i, item := range items {
		if item.TicketID == "" {
			return nil, fmt.Errorf("%w: ticket_id of item #%d", entity.ErrMissingField, i+1)
		}
	}

	return items, nil
}

// CompositeText builds the text block that gets embedded for an item
func CompositeText(item entity.KnowledgeItem) string {
	return fmt.Sprintf(
		"Título: %s.\nDescripción: %s.\nCategoría: %s.\nSolución: %s",
		item.Title, item.Description, item.Category, item.Solution,
	)
}

// SolutionSummary joins the solution with its historical resolution time
func SolutionSummary(item entity.KnowledgeItem) string {
	return fmt.Sprintf("%s (Tiempo de resolución histórico: %s)", item.Solution, item.ResolutionTime)
}

// TitleFromText recovers the title from the first line of a composite text
func TitleFromText(text string) string {
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(strings.TrimPrefix(first, "Título:"))
	return strings.TrimSuffix(first, ".")
}
