package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"handwerk-hero/go_backend/internal/domain/quote"
)

func TestGenerator_WritesRowsAndFormulas(t *testing.T) {
	totals, err := quote.Calculate([]quote.LineItem{
		{Quantity: "2", Unit: "piece", Description: "Tile", Type: quote.TypeMaterial, UnitPrice: "12.5"},
		{Quantity: "3", Unit: "hour", Description: "Tiling", Type: quote.TypeLabor, UnitPrice: "45"},
	})
	require.NoError(t, err)

	out, err := New().Generate(quote.Document{
		Issuer:        quote.Issuer{Name: "Example Business Name", Contact: "Example Street 1"},
		CustomerLabel: "Schmidt",
		Totals:        totals,
		Currency:      "EUR",
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	name, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Example Business Name", name)

	head, err := f.GetCellValue(SheetName, "C5")
	require.NoError(t, err)
	assert.Equal(t, "Description", head)

	desc, err := f.GetCellValue(SheetName, "C7")
	require.NoError(t, err)
	assert.Equal(t, "Tiling", desc)

	formula, err := f.GetCellFormula(SheetName, "F6")
	require.NoError(t, err)
	assert.Equal(t, "A6*E6", formula)

	sum, err := f.GetCellFormula(SheetName, "F9")
	require.NoError(t, err)
	assert.Equal(t, "SUM(F6:F7)", sum)
}

func TestGenerator_EmptyTable(t *testing.T) {
	out, err := New().Generate(quote.Document{Currency: "EUR"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sum, err := f.GetCellFormula(SheetName, "F7")
	require.NoError(t, err)
	assert.Equal(t, "0", sum)
}
