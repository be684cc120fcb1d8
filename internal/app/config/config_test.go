package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "https://api.groq.com/openai", cfg.OpenAIBaseURL)
	assert.Equal(t, "meta-llama/llama-4-scout-17b-16e-instruct", cfg.OpenAIVisionModel)
	assert.Equal(t, 90*time.Second, cfg.ModelTimeout)
	assert.True(t, cfg.PersistenceEnabled)
	assert.Equal(t, 40, cfg.PDFDescriptionWidth)
	assert.True(t, cfg.PDFTypeColumn)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(15), cfg.MaxUploadMB)
	assert.Equal(t, "quotes", cfg.SupabaseTable)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CURRENCY", "chf")
	t.Setenv("MODEL_TIMEOUT", "2m")
	t.Setenv("PDF_TYPE_COLUMN", "false")
	t.Setenv("PDF_DESCRIPTION_WIDTH", "60")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("OPENAI_API_KEY", "gsk_x")

	cfg, err := Load(viper.New())

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "CHF", cfg.Currency)
	assert.Equal(t, 2*time.Minute, cfg.ModelTimeout)
	assert.False(t, cfg.PDFTypeColumn)
	assert.Equal(t, 60, cfg.PDFDescriptionWidth)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "gsk_x", cfg.OpenAIAPIKey)
}

func TestLoad_MalformedValues(t *testing.T) {
	cases := map[string]string{
		"MODEL_TIMEOUT":         "ninety",
		"PERSISTENCE_ENABLED":   "maybe",
		"PDF_DESCRIPTION_WIDTH": "wide",
		"STORE_DRIVER":          "mongo",
		"MAX_UPLOAD_MB":         "0",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(name, value)

			_, err := Load(viper.New())

			require.Error(t, err)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestDriver(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"nothing configured", Config{PersistenceEnabled: true}, DriverNone},
		{"supabase credentials", Config{PersistenceEnabled: true, SupabaseURL: "https://x.supabase.co", SupabaseKey: "k", DatabaseURL: "postgres://"}, DriverSupabase},
		{"database url", Config{PersistenceEnabled: true, DatabaseURL: "postgres://"}, DriverPostgres},
		{"explicit driver", Config{PersistenceEnabled: true, StoreDriver: DriverSQLite}, DriverSQLite},
		{"disabled wins", Config{PersistenceEnabled: false, StoreDriver: DriverSQLite}, DriverNone},
		{"supabase url without key", Config{PersistenceEnabled: true, SupabaseURL: "https://x.supabase.co"}, DriverNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.Driver())
		})
	}
}
