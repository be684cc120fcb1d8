package quote

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Amount is the raw text of a numeric cell. It stays uncoerced until totals
// are calculated so that a user edit like "two" survives until then.
type Amount string

func NewAmount(f float64) Amount {
	return Amount(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float64 coerces the cell. Empty, non-numeric, NaN and infinite values fail.
func (a Amount) Float64() (float64, error) {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return 0, ErrNotNumeric
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotNumeric
	}
	return f, nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(data)
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if f, err := a.Float64(); err == nil {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Marshal(string(a))
}

// LineItem is one editable row of a quote.
type LineItem struct {
	Quantity    Amount `json:"quantity"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
	Type        string `json:"type"`
	UnitPrice   Amount `json:"unit_price"`
}

const (
	TypeMaterial = "material"
	TypeLabor    = "labor"
)

type Issuer struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Document is everything a renderer needs for one quote.
type Document struct {
	Issuer        Issuer
	CustomerLabel string
	Totals        Totals
	Currency      string
}

// StoredItem is the flat, fully numeric row shape used by record stores.
type StoredItem struct {
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// Draft is a quote about to be persisted; the store assigns ID and CreatedAt.
type Draft struct {
	CustomerLabel string
	Title         string
	Items         []StoredItem
	NetTotal      float64
}

type Record struct {
	ID            string       `json:"id"`
	CustomerLabel string       `json:"customer_label"`
	Title         string       `json:"title"`
	Items         []StoredItem `json:"items"`
	NetTotal      float64      `json:"net_total"`
	CreatedAt     time.Time    `json:"created_at"`
}

type Summary struct {
	ID            string    `json:"id"`
	CustomerLabel string    `json:"customer_label"`
	NetTotal      float64   `json:"net_total"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoredItems flattens calculated totals into the persisted row shape.
func StoredItems(t Totals) []StoredItem {
	out := make([]StoredItem, 0, len(t.Lines))
	for _, l := range t.Lines {
		q, _ := l.Quantity.Float64()
		p, _ := l.UnitPrice.Float64()
		out = append(out, StoredItem{
			Quantity:    q,
			Unit:        l.Unit,
			Description: l.Description,
			Type:        l.Type,
			UnitPrice:   p,
			LineTotal:   l.LineTotal.InexactFloat64(),
		})
	}
	return out
}

// LineItems turns persisted rows back into an editable table. Stored line
// totals are dropped; they are recalculated from quantity and unit price.
func LineItems(items []StoredItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{
			Quantity:    NewAmount(it.Quantity),
			Unit:        it.Unit,
			Description: it.Description,
			Type:        it.Type,
			UnitPrice:   NewAmount(it.UnitPrice),
		})
	}
	return out
}

func TitleFor(t time.Time) string {
	return "Quote of " + t.Format("2006-01-02")
}
