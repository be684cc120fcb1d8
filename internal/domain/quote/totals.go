package quote

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

type Line struct {
	LineItem
	LineTotal decimal.Decimal
}

type Totals struct {
	Lines []Line
	Net   decimal.Decimal
}

var (
	errNegativeQuantity = errors.New("quantity must not be negative")
	errOutOfRange       = errors.New("total is too large")
)

// Calculate coerces quantity and unit price of every row and derives line and
// net totals. Any row that fails coercion fails the whole table.
func Calculate(items []LineItem) (Totals, error) {
	t := Totals{Lines: make([]Line, 0, len(items)), Net: decimal.Zero}
	for i, it := range items {
		q, err := it.Quantity.Float64()
		if err != nil {
			return Totals{}, &CalcError{Row: i, Field: "quantity", Value: string(it.Quantity), Err: err}
		}
		if q < 0 {
			return Totals{}, &CalcError{Row: i, Field: "quantity", Value: string(it.Quantity), Err: errNegativeQuantity}
		}
		p, err := it.UnitPrice.Float64()
		if err != nil {
			return Totals{}, &CalcError{Row: i, Field: "unit_price", Value: string(it.UnitPrice), Err: err}
		}
		line := decimal.NewFromFloat(q).Mul(decimal.NewFromFloat(p))
		if !finite(line) {
			return Totals{}, &CalcError{Row: i, Field: "line_total", Value: string(it.Quantity) + " x " + string(it.UnitPrice), Err: errOutOfRange}
		}
		t.Lines = append(t.Lines, Line{LineItem: it, LineTotal: line})
		t.Net = t.Net.Add(line)
		if !finite(t.Net) {
			return Totals{}, &CalcError{Row: i, Field: "net_total", Value: string(it.Quantity) + " x " + string(it.UnitPrice), Err: errOutOfRange}
		}
	}
	return t, nil
}

// finite reports whether d survives conversion to float64, which every
// renderer and store uses.
func finite(d decimal.Decimal) bool {
	f, _ := d.Float64()
	return !math.IsInf(f, 0)
}
