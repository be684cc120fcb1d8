// Package sheet renders a quote table as an XLSX workbook.
package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"handwerk-hero/go_backend/internal/domain/quote"
)

const (
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	Filename    = "Quote.xlsx"
	SheetName   = "Quote"
)

var headers = []string{"Quantity", "Unit", "Description", "Type", "Unit price", "Line total"}

type Generator struct{}

func New() *Generator { return &Generator{} }

// Generate writes one row per line item. Line totals and the net total are
// formulas so the workbook stays consistent when edited in a spreadsheet.
func (g *Generator) Generate(doc quote.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F0F0F0"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}

	if err := f.SetCellValue(SheetName, "A1", doc.Issuer.Name); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, "A2", doc.Issuer.Contact); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(SheetName, "A3", "Subject: "+doc.CustomerLabel); err != nil {
		return nil, err
	}

	const headRow = 5
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headRow)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetName, "A5", "F5", headStyle); err != nil {
		return nil, err
	}

	row := headRow
	for _, line := range doc.Totals.Lines {
		row++
		qty, _ := line.Quantity.Float64()
		price, _ := line.UnitPrice.Float64()
		values := []interface{}{qty, line.Unit, line.Description, line.Type, price}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellFormula(SheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("A%d*E%d", row, row)); err != nil {
			return nil, err
		}
	}

	totalRow := row + 2
	if err := f.SetCellValue(SheetName, fmt.Sprintf("E%d", totalRow), "Net total ("+doc.Currency+")"); err != nil {
		return nil, err
	}
	sum := "0"
	if row > headRow {
		sum = fmt.Sprintf("SUM(F%d:F%d)", headRow+1, row)
	}
	if err := f.SetCellFormula(SheetName, fmt.Sprintf("F%d", totalRow), sum); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, fmt.Sprintf("E%d", headRow+1), fmt.Sprintf("F%d", totalRow), moneyStyle); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetName, "C", "C", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
