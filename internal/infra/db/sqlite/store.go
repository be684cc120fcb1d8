// Package sqlite stores saved quotes in a single local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"handwerk-hero/go_backend/internal/domain/quote"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	id TEXT PRIMARY KEY,
	customer_label TEXT NOT NULL,
	title TEXT NOT NULL,
	items TEXT NOT NULL,
	net_total REAL NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_quotes_created_at ON quotes(created_at);
`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the file and its schema when missing.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "./data/quotes.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ListSummaries(ctx context.Context) ([]quote.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_label, net_total, created_at
		FROM quotes
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	out := []quote.Summary{}
	for rows.Next() {
		var (
			sum     quote.Summary
			created string
		)
		if err := rows.Scan(&sum.ID, &sum.CustomerLabel, &sum.NetTotal, &created); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}
		if sum.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Fetch(ctx context.Context, id string) (*quote.Record, error) {
	var (
		rec     quote.Record
		items   string
		created string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, customer_label, title, items, net_total, created_at
		FROM quotes WHERE id = ?
	`, id).Scan(&rec.ID, &rec.CustomerLabel, &rec.Title, &items, &rec.NetTotal, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, quote.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching quote: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &rec.Items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Insert(ctx context.Context, d quote.Draft) (*quote.Record, error) {
	items := d.Items
	if items == nil {
		items = []quote.StoredItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding items: %w", err)
	}

	rec := &quote.Record{
		ID:            uuid.NewString(),
		CustomerLabel: d.CustomerLabel,
		Title:         d.Title,
		Items:         d.Items,
		NetTotal:      d.NetTotal,
		CreatedAt:     s.now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, customer_label, title, items, net_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CustomerLabel, rec.Title, string(encoded), rec.NetTotal, rec.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("inserting quote: %w", err)
	}
	return rec, nil
}

// fixed width so that text ordering matches time ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing created_at %q: %w", v, err)
	}
	return t, nil
}
