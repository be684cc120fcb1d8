package quote

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// fieldAliases lists, per canonical field, the keys accepted from the model in
// order of preference. Keys are compared after normalizeKey.
var fieldAliases = []struct {
	field string
	keys  []string
}{
	{"quantity", []string{"quantity", "qty", "menge"}},
	{"unit", []string{"unit", "einheit"}},
	{"description", []string{"description", "desc", "name", "item", "beschreibung"}},
	{"type", []string{"type", "kind", "category", "typ"}},
	{"unit_price", []string{"unit_price", "unitprice", "price", "einzelpreis"}},
}

// ParseItems extracts line items from a raw model response.
//
// Only the span from the first '[' to the last ']' is considered, which lets
// prose or markdown fences surround the array. Brackets outside the intended
// array (for example "[sic]" in a trailing sentence) break the extraction and
// surface as ErrMalformedOutput; this is a known limitation.
func ParseItems(raw string) ([]LineItem, error) {
	start := strings.Index(raw, "[")
	if start < 0 {
		return nil, &ParseError{Raw: raw, Err: ErrNoStructuredData}
	}
	end := strings.LastIndex(raw, "]")
	if end < start {
		return nil, &ParseError{Raw: raw, Err: ErrNoStructuredData}
	}

	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &rows); err != nil {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("%w: %v", ErrMalformedOutput, err)}
	}

	items := make([]LineItem, 0, len(rows))
	for i, row := range rows {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(row, &obj); err != nil || obj == nil {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("%w: element %d is not an object", ErrMalformedOutput, i)}
		}
		it, err := itemFromObject(obj)
		if err != nil {
			return nil, &ParseError{Raw: raw, Err: fmt.Errorf("%w: element %d: %v", ErrMalformedOutput, i, err)}
		}
		items = append(items, it)
	}
	return items, nil
}

func itemFromObject(obj map[string]json.RawMessage) (LineItem, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	norm := make(map[string]json.RawMessage, len(obj))
	for _, k := range keys {
		nk := normalizeKey(k)
		if _, seen := norm[nk]; !seen {
			norm[nk] = obj[k]
		}
	}

	var it LineItem
	for _, fa := range fieldAliases {
		val, ok := lookup(norm, fa.keys)
		if !ok {
			continue
		}
		switch fa.field {
		case "quantity":
			if err := it.Quantity.UnmarshalJSON(val); err != nil {
				return LineItem{}, err
			}
		case "unit_price":
			if err := it.UnitPrice.UnmarshalJSON(val); err != nil {
				return LineItem{}, err
			}
		case "unit":
			it.Unit = textValue(val)
		case "description":
			it.Description = textValue(val)
		case "type":
			it.Type = textValue(val)
		}
	}
	return it, nil
}

func lookup(norm map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := norm[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	if k == "unit_price" {
		return k
	}
	return strings.ReplaceAll(k, "_", "")
}

func textValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
