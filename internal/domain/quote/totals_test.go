package quote

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_LineAndNetTotals(t *testing.T) {
	items := []LineItem{
		{Quantity: "2", Description: "Tile, 30x30", Type: TypeMaterial, UnitPrice: "12.5"},
		{Quantity: "3.5", Unit: "hour", Description: "Tiling", Type: TypeLabor, UnitPrice: "48"},
		{Quantity: "0", Description: "Skipped", UnitPrice: "99"},
	}

	totals, err := Calculate(items)
	require.NoError(t, err)
	require.Len(t, totals.Lines, 3)

	assert.True(t, totals.Lines[0].LineTotal.Equal(decimal.RequireFromString("25")))
	assert.True(t, totals.Lines[1].LineTotal.Equal(decimal.RequireFromString("168")))
	assert.True(t, totals.Lines[2].LineTotal.IsZero())
	assert.True(t, totals.Net.Equal(decimal.RequireFromString("193")))
	assert.Equal(t, items[1], totals.Lines[1].LineItem)
}

func TestCalculate_NetIsSumOfLines(t *testing.T) {
	cases := [][2]float64{{1, 0.1}, {3, 0.2}, {7.25, 19.99}, {10, 1e-3}, {0.5, 1234.56}}
	items := make([]LineItem, 0, len(cases))
	for _, c := range cases {
		items = append(items, LineItem{Quantity: NewAmount(c[0]), UnitPrice: NewAmount(c[1])})
	}

	totals, err := Calculate(items)
	require.NoError(t, err)

	sum := decimal.Zero
	for i, l := range totals.Lines {
		want := decimal.NewFromFloat(cases[i][0]).Mul(decimal.NewFromFloat(cases[i][1]))
		assert.True(t, l.LineTotal.Equal(want), "row %d", i)
		sum = sum.Add(l.LineTotal)
	}
	assert.True(t, totals.Net.Equal(sum))
}

func TestCalculate_EmptyTableIsZero(t *testing.T) {
	totals, err := Calculate(nil)
	require.NoError(t, err)
	assert.Empty(t, totals.Lines)
	assert.True(t, totals.Net.IsZero())
}

func TestCalculate_NonNumericQuantity(t *testing.T) {
	items := []LineItem{
		{Quantity: "1", UnitPrice: "10"},
		{Quantity: "two", UnitPrice: "10"},
	}

	totals, err := Calculate(items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCalculation))
	assert.True(t, errors.Is(err, ErrNotNumeric))
	assert.Empty(t, totals.Lines)
	assert.True(t, totals.Net.IsZero())

	var ce *CalcError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Row)
	assert.Equal(t, "quantity", ce.Field)
	assert.Equal(t, "two", ce.Value)
}

func TestCalculate_RejectsBadCells(t *testing.T) {
	cases := map[string]LineItem{
		"empty price":       {Quantity: "1", UnitPrice: ""},
		"nan price":         {Quantity: "1", UnitPrice: "NaN"},
		"infinite quantity": {Quantity: "Inf", UnitPrice: "1"},
		"negative quantity": {Quantity: "-1", UnitPrice: "1"},
		"comma decimal":     {Quantity: "1", UnitPrice: "12,5"},
	}
	for name, it := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Calculate([]LineItem{it})
			assert.ErrorIs(t, err, ErrCalculation)
		})
	}
}

func TestCalculate_TotalBeyondFloatRange(t *testing.T) {
	_, err := Calculate([]LineItem{{Quantity: "1e308", UnitPrice: "10"}})

	var ce *CalcError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, ErrCalculation)
	assert.Equal(t, 0, ce.Row)
	assert.Equal(t, "line_total", ce.Field)
}

func TestCalculate_NetBeyondFloatRange(t *testing.T) {
	items := []LineItem{
		{Quantity: "1e308", UnitPrice: "1.5"},
		{Quantity: "1e308", UnitPrice: "1.5"},
	}

	_, err := Calculate(items)

	var ce *CalcError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 1, ce.Row)
	assert.Equal(t, "net_total", ce.Field)
}

func TestCalculate_TrimsWhitespace(t *testing.T) {
	totals, err := Calculate([]LineItem{{Quantity: " 4 ", UnitPrice: "\t2.5"}})
	require.NoError(t, err)
	assert.Equal(t, "10.00", totals.Net.StringFixed(2))
}
