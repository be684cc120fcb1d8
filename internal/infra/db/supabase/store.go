// Package supabase stores saved quotes in a Supabase table through its
// PostgREST interface.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"handwerk-hero/go_backend/internal/domain/quote"
)

const DefaultTable = "quotes"

type Options struct {
	URL   string
	Key   string
	Table string
}

type Store struct {
	baseURL string
	key     string
	table   string
	HTTP    *http.Client
}

func New(opts Options) (*Store, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("invalid supabase url")
	}
	if opts.Key == "" {
		return nil, fmt.Errorf("missing supabase key")
	}
	table := opts.Table
	if table == "" {
		table = DefaultTable
	}
	return &Store{
		baseURL: base,
		key:     opts.Key,
		table:   table,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type row struct {
	ID            string             `json:"id,omitempty"`
	CustomerLabel string             `json:"customer_label"`
	Title         string             `json:"title,omitempty"`
	Items         []quote.StoredItem `json:"items,omitempty"`
	NetTotal      float64            `json:"net_total"`
	CreatedAt     *time.Time         `json:"created_at,omitempty"`
}

func (r row) record() *quote.Record {
	rec := &quote.Record{
		ID:            r.ID,
		CustomerLabel: r.CustomerLabel,
		Title:         r.Title,
		Items:         r.Items,
		NetTotal:      r.NetTotal,
	}
	if r.CreatedAt != nil {
		rec.CreatedAt = *r.CreatedAt
	}
	return rec
}

func (s *Store) ListSummaries(ctx context.Context) ([]quote.Summary, error) {
	values := url.Values{}
	values.Set("select", "id,customer_label,net_total,created_at")
	values.Set("order", "created_at.desc")

	var rows []row
	if err := s.do(ctx, http.MethodGet, values, nil, &rows); err != nil {
		return nil, err
	}

	out := make([]quote.Summary, 0, len(rows))
	for _, r := range rows {
		rec := r.record()
		out = append(out, quote.Summary{
			ID:            rec.ID,
			CustomerLabel: rec.CustomerLabel,
			NetTotal:      rec.NetTotal,
			CreatedAt:     rec.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) Fetch(ctx context.Context, id string) (*quote.Record, error) {
	values := url.Values{}
	values.Set("select", "*")
	values.Set("id", "eq."+id)
	values.Set("limit", "1")

	var rows []row
	if err := s.do(ctx, http.MethodGet, values, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, quote.ErrNotFound
	}
	return rows[0].record(), nil
}

func (s *Store) Insert(ctx context.Context, d quote.Draft) (*quote.Record, error) {
	items := d.Items
	if items == nil {
		items = []quote.StoredItem{}
	}
	payload := struct {
		CustomerLabel string             `json:"customer_label"`
		Title         string             `json:"title"`
		Items         []quote.StoredItem `json:"items"`
		NetTotal      float64            `json:"net_total"`
	}{d.CustomerLabel, d.Title, items, d.NetTotal}

	var rows []row
	if err := s.do(ctx, http.MethodPost, nil, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("supabase insert returned no row")
	}
	rec := rows[0].record()
	if rec.Items == nil {
		rec.Items = d.Items
	}
	return rec, nil
}

func (s *Store) do(ctx context.Context, method string, values url.Values, payload interface{}, out interface{}) error {
	urlStr := s.baseURL + "/rest/v1/" + url.PathEscape(s.table)
	if len(values) > 0 {
		urlStr += "?" + values.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(msg), "22P02") {
			// invalid uuid syntax in an id filter
			return quote.ErrNotFound
		}
		return fmt.Errorf("supabase status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
