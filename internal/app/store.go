package app

import (
	"context"
	"fmt"
	"log"

	"handwerk-hero/go_backend/internal/app/config"
	"handwerk-hero/go_backend/internal/domain/quote"
	"handwerk-hero/go_backend/internal/infra/db/memory"
	"handwerk-hero/go_backend/internal/infra/db/postgres"
	"handwerk-hero/go_backend/internal/infra/db/sqlite"
	"handwerk-hero/go_backend/internal/infra/db/supabase"
)

// openStore picks the record store from the configuration. A nil store means
// persistence is off; that is a normal state, not an error.
func openStore(ctx context.Context, cfg config.Config) (quote.Store, func(), error) {
	noop := func() {}

	switch driver := cfg.Driver(); driver {
	case config.DriverNone:
		log.Printf("store: persistence disabled")
		return nil, noop, nil

	case config.DriverMemory:
		log.Printf("store: driver=memory")
		return memory.New(), noop, nil

	case config.DriverSupabase:
		s, err := supabase.New(supabase.Options{URL: cfg.SupabaseURL, Key: cfg.SupabaseKey, Table: cfg.SupabaseTable})
		if err != nil {
			return nil, noop, fmt.Errorf("supabase: %w", err)
		}
		log.Printf("store: driver=supabase table=%s", cfg.SupabaseTable)
		return s, noop, nil

	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("postgres: DATABASE_URL is not set")
		}
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("postgres: %w", err)
		}
		log.Printf("store: driver=postgres")
		return postgres.NewQuoteStore(db), db.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("sqlite: %w", err)
		}
		log.Printf("store: driver=sqlite path=%s", cfg.SQLitePath)
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", driver)
	}
}
