package gofpdf

import (
	"fmt"
	"strings"

	"handwerk-hero/go_backend/internal/domain/quote"
)

const (
	DefaultDescriptionWidth = 40
	subjectWidth            = 50
	typeWidth               = 10
)

type Options struct {
	// DescriptionWidth is the number of characters of a description that fit
	// in its table cell.
	DescriptionWidth int
	TypeColumn       bool
}

type Column struct {
	Title string
	Width float64
	Align string
}

type Layout struct {
	IssuerName    string
	IssuerContact string
	Subject       string
	Columns       []Column
	Rows          [][]string
	TotalLabel    string
	Total         string
}

// BuildLayout turns a quote document into the exact strings drawn on the page.
func BuildLayout(doc quote.Document, opts Options) Layout {
	if opts.DescriptionWidth <= 0 {
		opts.DescriptionWidth = DefaultDescriptionWidth
	}
	label := strings.TrimSpace(doc.CustomerLabel)
	if label == "" {
		label = "Quote"
	}

	l := Layout{
		IssuerName:    doc.Issuer.Name,
		IssuerContact: doc.Issuer.Contact,
		Subject:       fmt.Sprintf("Subject: %s...", trim(label, subjectWidth)),
		TotalLabel:    "Net total:",
		Total:         strings.TrimSpace(fmt.Sprintf("%s %s", doc.Totals.Net.StringFixed(2), doc.Currency)),
	}

	l.Columns = append(l.Columns,
		Column{Title: "Qty", Width: 15, Align: "C"},
		Column{Title: "Description", Width: 80, Align: "L"},
	)
	if opts.TypeColumn {
		l.Columns = append(l.Columns, Column{Title: "Type", Width: 20, Align: "C"})
	}
	l.Columns = append(l.Columns,
		Column{Title: "Unit price", Width: 25, Align: "R"},
		Column{Title: "Total", Width: 25, Align: "R"},
	)

	for _, line := range doc.Totals.Lines {
		price, _ := line.UnitPrice.Float64()
		row := []string{
			strings.TrimSpace(string(line.Quantity)),
			trim(line.Description, opts.DescriptionWidth),
		}
		if opts.TypeColumn {
			row = append(row, trim(line.Type, typeWidth))
		}
		row = append(row,
			fmt.Sprintf("%.2f", price),
			line.LineTotal.StringFixed(2),
		)
		l.Rows = append(l.Rows, row)
	}
	return l
}

// TableWidth is the sum of all column widths; the total row aligns to it.
func (l Layout) TableWidth() float64 {
	var w float64
	for _, c := range l.Columns {
		w += c.Width
	}
	return w
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
