package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"handwerk-hero/go_backend/internal/app/http/middleware"
	"handwerk-hero/go_backend/internal/app/quoting"
	"handwerk-hero/go_backend/internal/app/session"
	"handwerk-hero/go_backend/internal/domain/quote"
	"handwerk-hero/go_backend/internal/infra/llm"
)

type Handlers struct {
	Svc         *quoting.Service
	Sessions    *session.Registry
	MaxUploadMB int64
}

func New(svc *quoting.Service, sessions *session.Registry, maxUploadMB int64) *Handlers {
	if maxUploadMB <= 0 {
		maxUploadMB = 15
	}
	return &Handlers{
		Svc:         svc,
		Sessions:    sessions,
		MaxUploadMB: maxUploadMB,
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Row     *int   `json:"row,omitempty"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
	// Raw is the unparsed model answer, shown for manual inspection.
	Raw   string     `json:"raw,omitempty"`
	Quote *quoteView `json:"quote,omitempty"`
}

// MapError translates service errors to an HTTP status and error code.
func MapError(err error) (status int, code, msg string) {
	var rl *llm.RateLimitError
	switch {
	case errors.Is(err, quote.ErrNoInput):
		return http.StatusBadRequest, "NO_INPUT", "enter notes or upload a photo"
	case errors.Is(err, llm.ErrEmptyImage):
		return http.StatusBadRequest, "EMPTY_IMAGE", "the uploaded photo is empty"
	case errors.Is(err, quote.ErrMissingCredential):
		return http.StatusBadRequest, "MISSING_CREDENTIAL", "no model API key configured; enter one in the settings"
	case errors.Is(err, quote.ErrBusy):
		return http.StatusConflict, "GENERATION_IN_PROGRESS", "a quote is already being generated for this session"
	case errors.Is(err, quote.ErrNoStructuredData):
		return http.StatusUnprocessableEntity, "NO_STRUCTURED_DATA", "the model answer contains no item list"
	case errors.Is(err, quote.ErrMalformedOutput):
		return http.StatusUnprocessableEntity, "MALFORMED_OUTPUT", "the model answer could not be read as an item list"
	case errors.Is(err, quote.ErrCalculation):
		return http.StatusUnprocessableEntity, "CALCULATION_ERROR", err.Error()
	case errors.Is(err, quote.ErrCustomerRequired):
		return http.StatusBadRequest, "CUSTOMER_REQUIRED", "enter a customer name before saving"
	case errors.Is(err, quote.ErrRowOutOfRange):
		return http.StatusNotFound, "ROW_NOT_FOUND", "no row with that index"
	case errors.Is(err, quote.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "quote not found"
	case errors.Is(err, quote.ErrPersistenceDisabled):
		return http.StatusNotFound, "PERSISTENCE_DISABLED", "no database connected"
	case errors.As(err, &rl):
		return http.StatusTooManyRequests, "RATE_LIMITED", "the model service is rate limited; retry in " + rl.RetryAfter.String()
	case errors.Is(err, llm.ErrUpstream):
		return http.StatusBadGateway, "UPSTREAM_ERROR", "the model service failed; try again"
	case errors.Is(err, quote.ErrStore):
		return http.StatusBadGateway, "STORE_ERROR", "the database request failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: encode response failed err=%v", err)
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.failWith(w, r, err, nil)
}

// failWith writes the error envelope, attaching the quote when given.
func (h *Handlers) failWith(w http.ResponseWriter, r *http.Request, err error, q *quoteView) {
	status, code, msg := MapError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("http: [%s] %s %s failed code=%s err=%v", middleware.RequestIDFrom(r.Context()), r.Method, r.URL.Path, code, err)
	}

	resp := errorResponse{Error: apiError{Code: code, Message: msg}, Quote: q}

	var pe *quote.ParseError
	if errors.As(err, &pe) {
		resp.Raw = pe.Raw
	}
	var ce *quote.CalcError
	if errors.As(err, &ce) {
		row := ce.Row
		resp.Error.Row = &row
		resp.Error.Field = ce.Field
	}
	var rl *llm.RateLimitError
	if errors.As(err, &rl) {
		w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
	}
	writeJSON(w, status, resp)
}

// state returns the request's session. The Session middleware always sets
// one on the routes that call this.
func state(r *http.Request) (string, *session.State) {
	id, st, ok := middleware.SessionFrom(r.Context())
	if !ok {
		panic("handlers: session middleware not installed")
	}
	return id, st
}
