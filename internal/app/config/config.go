package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string
	InternalToken   string
	CORSAllowOrigin string

	IssuerName    string
	IssuerContact string
	Currency      string

	OpenAIBaseURL     string
	OpenAIAPIKey      string
	OpenAIVisionModel string
	ModelTimeout      time.Duration

	PersistenceEnabled bool
	StoreDriver        string
	SupabaseURL        string
	SupabaseKey        string
	SupabaseTable      string
	DatabaseURL        string
	SQLitePath         string

	PDFDescriptionWidth int
	PDFTypeColumn       bool

	SessionTTL  time.Duration
	MaxUploadMB int64

	ArchiveS3Bucket string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
}

// Store drivers accepted in STORE_DRIVER.
const (
	DriverAuto     = ""
	DriverNone     = "none"
	DriverMemory   = "memory"
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var defaults = map[string]interface{}{
	"http_addr":             ":8080",
	"cors_allow_origin":     "*",
	"issuer_name":           "Example Business Name",
	"issuer_contact":        "Example Street 1, 12345 Example City",
	"currency":              "EUR",
	"openai_base_url":       "https://api.groq.com/openai",
	"openai_vision_model":   "meta-llama/llama-4-scout-17b-16e-instruct",
	"model_timeout":         "90s",
	"persistence_enabled":   "true",
	"supabase_table":        "quotes",
	"sqlite_path":           "./data/quotes.db",
	"pdf_description_width": "40",
	"pdf_type_column":       "true",
	"session_ttl":           "12h",
	"max_upload_mb":         "15",
}

var keys = []string{
	"http_addr", "internal_token", "cors_allow_origin",
	"issuer_name", "issuer_contact", "currency",
	"openai_base_url", "openai_api_key", "openai_vision_model", "model_timeout",
	"persistence_enabled", "store_driver", "supabase_url", "supabase_key", "supabase_table",
	"database_url", "sqlite_path",
	"pdf_description_width", "pdf_type_column",
	"session_ttl", "max_upload_mb",
	"archive_s3_bucket", "s3_region", "s3_endpoint", "s3_access_key", "s3_secret_key",
}

func MustLoad() Config {
	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Load reads the environment through v. Unset variables fall back to
// defaults; only malformed values are an error.
func Load(v *viper.Viper) (Config, error) {
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return Config{}, err
		}
	}

	p := parser{v: v}
	cfg := Config{
		HTTPAddr:        p.str("http_addr"),
		InternalToken:   p.str("internal_token"),
		CORSAllowOrigin: p.str("cors_allow_origin"),

		IssuerName:    p.str("issuer_name"),
		IssuerContact: p.str("issuer_contact"),
		Currency:      strings.ToUpper(p.str("currency")),

		OpenAIBaseURL:     p.str("openai_base_url"),
		OpenAIAPIKey:      p.str("openai_api_key"),
		OpenAIVisionModel: p.str("openai_vision_model"),
		ModelTimeout:      p.duration("model_timeout"),

		PersistenceEnabled: p.boolean("persistence_enabled"),
		StoreDriver:        strings.ToLower(p.str("store_driver")),
		SupabaseURL:        p.str("supabase_url"),
		SupabaseKey:        p.str("supabase_key"),
		SupabaseTable:      p.str("supabase_table"),
		DatabaseURL:        p.str("database_url"),
		SQLitePath:         p.str("sqlite_path"),

		PDFDescriptionWidth: p.integer("pdf_description_width"),
		PDFTypeColumn:       p.boolean("pdf_type_column"),

		SessionTTL:  p.duration("session_ttl"),
		MaxUploadMB: int64(p.integer("max_upload_mb")),

		ArchiveS3Bucket: p.str("archive_s3_bucket"),
		S3Region:        p.str("s3_region"),
		S3Endpoint:      p.str("s3_endpoint"),
		S3AccessKey:     p.str("s3_access_key"),
		S3SecretKey:     p.str("s3_secret_key"),
	}
	if p.err != nil {
		return Config{}, p.err
	}

	switch cfg.StoreDriver {
	case DriverAuto, DriverNone, DriverMemory, DriverSupabase, DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}
	if cfg.ModelTimeout <= 0 {
		return Config{}, fmt.Errorf("MODEL_TIMEOUT: must be positive")
	}
	if cfg.PDFDescriptionWidth <= 0 {
		return Config{}, fmt.Errorf("PDF_DESCRIPTION_WIDTH: must be positive")
	}
	if cfg.MaxUploadMB <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_MB: must be positive")
	}
	return cfg, nil
}

// Driver resolves the store driver to use. An empty STORE_DRIVER picks
// supabase, then postgres, from whichever credentials are present.
func (c Config) Driver() string {
	if !c.PersistenceEnabled {
		return DriverNone
	}
	if c.StoreDriver != DriverAuto {
		return c.StoreDriver
	}
	switch {
	case c.SupabaseURL != "" && c.SupabaseKey != "":
		return DriverSupabase
	case c.DatabaseURL != "":
		return DriverPostgres
	default:
		return DriverNone
	}
}

// parser keeps the first conversion error.
type parser struct {
	v   *viper.Viper
	err error
}

func (p *parser) str(k string) string {
	return strings.TrimSpace(p.v.GetString(k))
}

func (p *parser) fail(k string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s: %w", strings.ToUpper(k), err)
	}
}

func (p *parser) duration(k string) time.Duration {
	d, err := time.ParseDuration(p.str(k))
	if err != nil {
		p.fail(k, err)
	}
	return d
}

func (p *parser) boolean(k string) bool {
	b, err := strconv.ParseBool(p.str(k))
	if err != nil {
		p.fail(k, err)
	}
	return b
}

func (p *parser) integer(k string) int {
	n, err := strconv.Atoi(p.str(k))
	if err != nil {
		p.fail(k, err)
	}
	return n
}
