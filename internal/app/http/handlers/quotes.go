package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListQuotes(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quotes": list})
}

func (h *Handlers) SaveQuote(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	rec, err := h.Svc.Save(r.Context(), st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handlers) GetSavedQuote(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Svc.Fetch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// LoadSavedQuote replaces the session table with a saved quote.
func (h *Handlers) LoadSavedQuote(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	q, err := h.Svc.Load(r.Context(), st, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondQuote(w, r, http.StatusOK, q)
}
