package gofpdf

import (
	"bytes"
	"log"

	"github.com/jung-kurt/gofpdf"
	"handwerk-hero/go_backend/internal/domain/quote"
)

const fontFamily = "Helvetica"

type Generator struct {
	opts Options
}

func New(opts Options) *Generator { return &Generator{opts: opts} }

// Generate draws a one-page A4 quote. Text goes through the cp1252 translator,
// so Latin scripts render and anything outside that code page does not.
func (g *Generator) Generate(doc quote.Document) ([]byte, error) {
	l := BuildLayout(doc, g.opts)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quote", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(l.IssuerName), "", 1, "", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, 10, tr(l.IssuerContact), "", 1, "", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 10, tr(l.Subject), "", 1, "", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont(fontFamily, "B", 10)
	for i, c := range l.Columns {
		pdf.CellFormat(c.Width, 10, tr(c.Title), "1", lineBreak(i, len(l.Columns)), c.Align, true, 0, "")
	}

	pdf.SetFont(fontFamily, "", 10)
	for _, row := range l.Rows {
		for i, c := range l.Columns {
			pdf.CellFormat(c.Width, 10, tr(row[i]), "1", lineBreak(i, len(l.Columns)), c.Align, false, 0, "")
		}
	}

	pdf.Ln(5)
	pdf.SetFont(fontFamily, "B", 10)
	last := l.Columns[len(l.Columns)-1].Width
	pdf.CellFormat(l.TableWidth()-last, 10, tr(l.TotalLabel), "", 0, "R", false, 0, "")
	pdf.CellFormat(last, 10, tr(l.Total), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Printf("quote pdf: output failed: %v", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func lineBreak(i, n int) int {
	if i == n-1 {
		return 1
	}
	return 0
}
