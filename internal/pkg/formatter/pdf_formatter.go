package formatter

import (
	"bytes"
	"fmt"
	"os"

	"github.com/futig/ticket-classifier/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In the container image fonts are copied next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct {
	fontPaths []string
}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{
		fontPaths: []string{pdfFontRuntimePath, pdfFontSourcePath},
	}
}

// resolveFontPath returns the first existing DejaVuSans font path
func (pf *PDFFormatter) resolveFontPath() string {
	for _, p := range pf.fontPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (pf *PDFFormatter) Format(report *entity.ClassificationReport) ([]byte, error) {
	if report == nil || report.Classification == nil {
		return nil, fmt.Errorf("%w: classification", entity.ErrMissingField)
	}
	c := report.Classification

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts are cp1252, so text is translated when the UTF-8 font is missing
	fontName := "Arial"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := pf.resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		tr = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 18)
	pdf.Cell(0, 10, tr(baseTitle))
	pdf.Ln(10)

	pdf.SetFont(fontName, "", 9)
	if report.ID != "" {
		pdf.Cell(0, 5, tr("ID: "+report.ID))
		pdf.Ln(5)
	}
	if !report.GeneratedAt.IsZero() {
		pdf.Cell(0, 5, tr("Generado: "+report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST")))
		pdf.Ln(5)
	}
	pdf.Ln(3)

	section := func(title string) {
		pdf.SetFont(fontName, "B", 13)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(9)
	}
	rows := func(fields []field) {
		for _, f := range fields {
			pdf.SetFont(fontName, "B", 10)
			pdf.CellFormat(60, 6, tr(f.label), "", 0, "", false, 0, "")
			pdf.SetFont(fontName, "", 10)
			pdf.MultiCell(0, 6, tr(f.value), "", "", false)
		}
		pdf.Ln(3)
	}

	section("Ticket")
	rows(ticketFields(report.Ticket))

	section("Clasificación")
	rows(classificationFields(c))

	section("Justificación")
	pdf.SetFont(fontName, "", 10)
	pdf.MultiCell(0, 6, tr(c.Justification), "", "", false)
	pdf.Ln(3)

	section("Evidencia histórica")
	pdf.SetFont(fontName, "", 10)
	if len(c.Evidence) == 0 {
		pdf.MultiCell(0, 6, tr("Sin tickets históricos recuperados."), "", "", false)
	}
	for _, d := range c.Evidence {
		pdf.SetFont(fontName, "B", 10)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s (Similitud: %.2f) - %s", d.TicketID, d.SimilarityScore, d.Title)), "", "", false)
		pdf.SetFont(fontName, "", 10)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("Categoría: %s. Solución: %s", d.Category, d.SolutionSummary)), "", "", false)
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (pf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
