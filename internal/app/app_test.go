package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"handwerk-hero/go_backend/internal/app/config"
	"handwerk-hero/go_backend/internal/infra/db/memory"
	"handwerk-hero/go_backend/internal/infra/db/sqlite"
	"handwerk-hero/go_backend/internal/infra/db/supabase"
)

func baseConfig() config.Config {
	return config.Config{
		CORSAllowOrigin:     "*",
		Currency:            "EUR",
		ModelTimeout:        time.Second,
		PersistenceEnabled:  true,
		PDFDescriptionWidth: 40,
		SessionTTL:          time.Hour,
		MaxUploadMB:         1,
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := baseConfig()
	s, closeFn, err := openStore(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, s)
	closeFn()

	cfg.StoreDriver = config.DriverMemory
	s, _, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	cfg.StoreDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "quotes.db")
	s, closeFn, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, s)
	closeFn()

	cfg.StoreDriver = config.DriverAuto
	cfg.SupabaseURL, cfg.SupabaseKey = "https://x.supabase.co", "k"
	s, _, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &supabase.Store{}, s)

	cfg.PersistenceEnabled = false
	s, _, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestOpenStore_PostgresNeedsURL(t *testing.T) {
	cfg := baseConfig()
	cfg.StoreDriver = config.DriverPostgres

	_, _, err := openStore(context.Background(), cfg)

	assert.Error(t, err)
}

func TestBuild_MountsQuotesOnlyWithStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := baseConfig()
	h, cleanup, err := build(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/quotes", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	cfg.StoreDriver = config.DriverMemory
	h, cleanup2, err := build(ctx, cfg)
	require.NoError(t, err)
	defer cleanup2()

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/quotes", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"quotes":[]}`, rr.Body.String())
}
