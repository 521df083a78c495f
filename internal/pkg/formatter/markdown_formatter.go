package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/ticket-classifier/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(report *entity.ClassificationReport) ([]byte, error) {
	if report == nil || report.Classification == nil {
		return nil, fmt.Errorf("%w: classification", entity.ErrMissingField)
	}
	c := report.Classification

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	if report.ID != "" {
		fmt.Fprintf(&buf, "- ID: `%s`\n", report.ID)
	}
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&buf, "- Generado: %s\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}

	buf.WriteString("\n## Ticket\n\n")
	for _, f := range ticketFields(report.Ticket) {
		fmt.Fprintf(&buf, "- **%s:** %s\n", f.label, f.value)
	}

	buf.WriteString("\n## Clasificación\n\n| Campo | Valor |\n|---|---|\n")
	for _, f := range classificationFields(c) {
		fmt.Fprintf(&buf, "| %s | %s |\n", f.label, escapeCell(f.value))
	}

	fmt.Fprintf(&buf, "\n## Justificación\n\n%s\n", c.Justification)

	buf.WriteString("\n## Evidencia histórica\n\n")
	if len(c.Evidence) == 0 {
		buf.WriteString("Sin tickets históricos recuperados.\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| ID | Título | Categoría | Solución | Similitud |\n|---|---|---|---|---|\n")
	for _, d := range c.Evidence {
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %.2f |\n",
			escapeCell(d.TicketID), escapeCell(d.Title), escapeCell(d.Category),
			escapeCell(d.SolutionSummary), d.SimilarityScore)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

var cellReplacer = strings.NewReplacer("|", "\\|", "\r\n", " ", "\n", " ")

func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
