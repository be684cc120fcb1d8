// Package quoting ties the session table to the model, the renderers and the
// record store.
package quoting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"handwerk-hero/go_backend/internal/app/session"
	"handwerk-hero/go_backend/internal/domain/quote"
	"handwerk-hero/go_backend/internal/domain/quote/pdf"
	"handwerk-hero/go_backend/internal/infra/llm"
)

// Estimator asks the language model for a quote.
type Estimator interface {
	Estimate(ctx context.Context, apiKey, prompt string, img *llm.Image) (string, error)
	HasCredential() bool
	Model() string
}

// Renderer turns a quote document into a downloadable file.
type Renderer interface {
	Generate(doc quote.Document) ([]byte, error)
}

// Archiver keeps a copy of the rendered document of a saved quote.
type Archiver interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type Deps struct {
	Estimator Estimator
	// Store is nil when persistence is not configured.
	Store   quote.Store
	PDF     Renderer
	Sheet   Renderer
	Archive Archiver
	// ArchiveKey builds the object key for a saved quote's PDF.
	ArchiveKey func(id, filename string) string
	Issuer     quote.Issuer
	Currency   string
}

type Service struct {
	est        Estimator
	store      quote.Store
	pdf        Renderer
	sheet      Renderer
	archive    Archiver
	archiveKey func(id, filename string) string
	issuer     quote.Issuer
	currency   string
	now        func() time.Time
}

func New(d Deps) *Service {
	currency := strings.ToUpper(strings.TrimSpace(d.Currency))
	if currency == "" {
		currency = "EUR"
	}
	key := d.ArchiveKey
	if key == nil {
		key = func(id, filename string) string { return "quotes/" + id + "/" + filename }
	}
	return &Service{
		est:        d.Estimator,
		store:      d.Store,
		pdf:        d.PDF,
		sheet:      d.Sheet,
		archive:    d.Archive,
		archiveKey: key,
		issuer:     d.Issuer,
		currency:   currency,
		now:        time.Now,
	}
}

// Quote is the session table together with its freshly calculated totals.
// CalcErr is set instead of Totals when a cell cannot be coerced.
type Quote struct {
	Customer string
	Items    []quote.LineItem
	Totals   quote.Totals
	CalcErr  error
	Currency string
}

type GenerateInput struct {
	Notes    string
	Customer string
	// APIKey overrides the session and configured key for this call.
	APIKey string
	Photo  *llm.Image
}

// Generate asks the model for line items and replaces the session table with
// them. On any failure the previous table is left untouched.
func (s *Service) Generate(ctx context.Context, st *session.State, in GenerateInput) (Quote, error) {
	if strings.TrimSpace(in.Notes) == "" && in.Photo == nil {
		return Quote{}, quote.ErrNoInput
	}
	if !st.TryBegin() {
		return Quote{}, quote.ErrBusy
	}
	defer st.End()

	key := strings.TrimSpace(in.APIKey)
	if key == "" {
		key = st.APIKey()
	}
	if key == "" && !s.est.HasCredential() {
		return Quote{}, quote.ErrMissingCredential
	}

	raw, err := s.est.Estimate(ctx, key, quote.BuildPrompt(in.Notes), in.Photo)
	if err != nil {
		return Quote{}, err
	}

	items, err := quote.ParseItems(raw)
	if err != nil {
		log.Printf("quoting: parse failed err=%v len=%d", err, len(raw))
		return Quote{}, err
	}
	st.SetItems(items)
	if c := strings.TrimSpace(in.Customer); c != "" {
		st.SetCustomer(c)
	}
	log.Printf("quoting: generated rows=%d photo=%v", len(items), in.Photo != nil)
	return s.Current(st), nil
}

// Current recalculates the session table.
func (s *Service) Current(st *session.State) Quote {
	q := Quote{
		Customer: st.Customer(),
		Items:    st.Items(),
		Currency: s.currency,
	}
	if q.Items == nil {
		q.Items = []quote.LineItem{}
	}
	q.Totals, q.CalcErr = quote.Calculate(q.Items)
	return q
}

func (s *Service) ReplaceItems(st *session.State, items []quote.LineItem) Quote {
	st.SetItems(items)
	return s.Current(st)
}

func (s *Service) AddItem(st *session.State, item quote.LineItem) Quote {
	st.AppendItem(item)
	return s.Current(st)
}

func (s *Service) RemoveItem(st *session.State, index int) (Quote, error) {
	if err := st.RemoveItem(index); err != nil {
		return Quote{}, err
	}
	return s.Current(st), nil
}

func (s *Service) SetCustomer(st *session.State, label string) Quote {
	st.SetCustomer(label)
	return s.Current(st)
}

// Issuer merges the session overrides over the configured identity.
func (s *Service) Issuer(st *session.State) quote.Issuer {
	iss := s.issuer
	over := st.Issuer()
	if over.Name != "" {
		iss.Name = over.Name
	}
	if over.Contact != "" {
		iss.Contact = over.Contact
	}
	return iss
}

func (s *Service) document(st *session.State) (quote.Document, error) {
	items := st.Items()
	totals, err := quote.Calculate(items)
	if err != nil {
		return quote.Document{}, err
	}
	return quote.Document{
		Issuer:        s.Issuer(st),
		CustomerLabel: st.Customer(),
		Totals:        totals,
		Currency:      s.currency,
	}, nil
}

// RenderPDF renders the current table. It fails with a calculation error
// when totals cannot be computed.
func (s *Service) RenderPDF(st *session.State) ([]byte, error) {
	return s.render(st, s.pdf)
}

func (s *Service) RenderSheet(st *session.State) ([]byte, error) {
	return s.render(st, s.sheet)
}

func (s *Service) render(st *session.State, r Renderer) ([]byte, error) {
	doc, err := s.document(st)
	if err != nil {
		return nil, err
	}
	return r.Generate(doc)
}

// Persistence reports whether a record store is configured.
func (s *Service) Persistence() bool {
	return s.store != nil
}

// Archiving reports whether saved quotes are also archived as PDF.
func (s *Service) Archiving() bool {
	return s.archive != nil
}

type Listing struct {
	quote.Summary
	Label string `json:"label"`
}

// List returns saved quotes newest first, each with a display label.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	if s.store == nil {
		return nil, quote.ErrPersistenceDisabled
	}
	sums, err := s.store.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w: %w", quote.ErrStore, err)
	}
	out := make([]Listing, 0, len(sums))
	for _, sum := range sums {
		out = append(out, Listing{Summary: sum, Label: s.Label(sum)})
	}
	return out, nil
}

// Label formats a summary the way the saved-quotes list shows it.
func (s *Service) Label(sum quote.Summary) string {
	return fmt.Sprintf("%s: %s (%.2f %s)", sum.CreatedAt.Format("2006-01-02"), sum.CustomerLabel, sum.NetTotal, s.currency)
}

// Save persists the current table under the session's customer label.
func (s *Service) Save(ctx context.Context, st *session.State) (*quote.Record, error) {
	if s.store == nil {
		return nil, quote.ErrPersistenceDisabled
	}
	customer := st.Customer()
	if customer == "" {
		return nil, quote.ErrCustomerRequired
	}
	doc, err := s.document(st)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.Insert(ctx, quote.Draft{
		CustomerLabel: customer,
		Title:         quote.TitleFor(s.now()),
		Items:         quote.StoredItems(doc.Totals),
		NetTotal:      doc.Totals.Net.InexactFloat64(),
	})
	if err != nil {
		return nil, fmt.Errorf("save quote: %w: %w", quote.ErrStore, err)
	}
	log.Printf("quoting: saved id=%s rows=%d", rec.ID, len(rec.Items))

	if s.archive != nil {
		s.archivePDF(ctx, rec.ID, doc)
	}
	return rec, nil
}

func (s *Service) archivePDF(ctx context.Context, id string, doc quote.Document) {
	data, err := s.pdf.Generate(doc)
	if err != nil {
		log.Printf("quoting: archive render failed id=%s err=%v", id, err)
		return
	}
	loc, err := s.archive.Put(ctx, s.archiveKey(id, pdf.Filename), pdf.ContentType, data)
	if err != nil {
		log.Printf("quoting: archive upload failed id=%s err=%v", id, err)
		return
	}
	log.Printf("quoting: archived id=%s location=%s", id, loc)
}

// Fetch returns a saved record without touching the session.
func (s *Service) Fetch(ctx context.Context, id string) (*quote.Record, error) {
	if s.store == nil {
		return nil, quote.ErrPersistenceDisabled
	}
	rec, err := s.store.Fetch(ctx, id)
	if err != nil && !errors.Is(err, quote.ErrNotFound) {
		return nil, fmt.Errorf("fetch quote: %w: %w", quote.ErrStore, err)
	}
	return rec, err
}

// Load replaces the session table and customer label with a saved record.
func (s *Service) Load(ctx context.Context, st *session.State, id string) (Quote, error) {
	rec, err := s.Fetch(ctx, id)
	if err != nil {
		return Quote{}, err
	}
	st.SetItems(quote.LineItems(rec.Items))
	st.SetCustomer(rec.CustomerLabel)
	log.Printf("quoting: loaded id=%s rows=%d", rec.ID, len(rec.Items))
	return s.Current(st), nil
}

type Status struct {
	Persistence          bool         `json:"persistence"`
	Archive              bool         `json:"archive"`
	CredentialConfigured bool         `json:"credential_configured"`
	SessionCredential    string       `json:"session_credential,omitempty"`
	Generating           bool         `json:"generating"`
	Model                string       `json:"model"`
	Currency             string       `json:"currency"`
	Issuer               quote.Issuer `json:"issuer"`
	Notices              []string     `json:"notices"`
}

// Status describes what the current session can do.
func (s *Service) Status(st *session.State) Status {
	snap := st.Snapshot()
	out := Status{
		Persistence:          s.Persistence(),
		Archive:              s.Archiving(),
		CredentialConfigured: s.est.HasCredential() || snap.HasAPIKey,
		SessionCredential:    snap.MaskedKey,
		Generating:           snap.Generating,
		Model:                s.est.Model(),
		Currency:             s.currency,
		Issuer:               s.Issuer(st),
		Notices:              []string{},
	}
	if !out.Persistence {
		out.Notices = append(out.Notices, "No database connected. Saving and loading quotes is unavailable.")
	}
	if !out.CredentialConfigured {
		out.Notices = append(out.Notices, "No model API key configured. Enter one in the settings to generate quotes.")
	}
	return out
}

type Settings struct {
	IssuerName    *string
	IssuerContact *string
	APIKey        *string
	Customer      *string
}

// ApplySettings updates the fields that are set.
func (s *Service) ApplySettings(st *session.State, in Settings) Status {
	if in.IssuerName != nil || in.IssuerContact != nil {
		iss := st.Issuer()
		if in.IssuerName != nil {
			iss.Name = *in.IssuerName
		}
		if in.IssuerContact != nil {
			iss.Contact = *in.IssuerContact
		}
		st.SetIssuer(iss)
	}
	if in.APIKey != nil {
		st.SetAPIKey(*in.APIKey)
	}
	if in.Customer != nil {
		st.SetCustomer(*in.Customer)
	}
	return s.Status(st)
}
