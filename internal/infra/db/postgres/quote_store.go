package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"handwerk-hero/go_backend/internal/domain/quote"
)

// QuoteStore reads and writes the quotes table created by db/migrations.
type QuoteStore struct {
	db *DB
}

func NewQuoteStore(db *DB) *QuoteStore {
	return &QuoteStore{db: db}
}

func (s *QuoteStore) ListSummaries(ctx context.Context) ([]quote.Summary, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id::text, customer_label, net_total, created_at
		FROM quotes
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	out := []quote.Summary{}
	for rows.Next() {
		var sum quote.Summary
		if err := rows.Scan(&sum.ID, &sum.CustomerLabel, &sum.NetTotal, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *QuoteStore) Fetch(ctx context.Context, id string) (*quote.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, quote.ErrNotFound
	}

	var (
		rec   quote.Record
		items []byte
	)
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id::text, customer_label, title, items, net_total, created_at
		FROM quotes WHERE id = $1
	`, id).Scan(&rec.ID, &rec.CustomerLabel, &rec.Title, &items, &rec.NetTotal, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, quote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching quote: %w", err)
	}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}
	return &rec, nil
}

func (s *QuoteStore) Insert(ctx context.Context, d quote.Draft) (*quote.Record, error) {
	items := d.Items
	if items == nil {
		items = []quote.StoredItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding items: %w", err)
	}

	rec := &quote.Record{
		CustomerLabel: d.CustomerLabel,
		Title:         d.Title,
		Items:         d.Items,
		NetTotal:      d.NetTotal,
	}
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO quotes (id, customer_label, title, items, net_total)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING id::text, created_at
	`, uuid.NewString(), d.CustomerLabel, d.Title, string(encoded), d.NetTotal).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting quote: %w", err)
	}
	return rec, nil
}
