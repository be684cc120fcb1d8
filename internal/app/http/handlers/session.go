package handlers

import (
	"encoding/json"
	"net/http"

	"handwerk-hero/go_backend/internal/app/quoting"
	"handwerk-hero/go_backend/internal/app/session"
)

type settingsRequest struct {
	IssuerName    *string `json:"issuer_name"`
	IssuerContact *string `json:"issuer_contact"`
	APIKey        *string `json:"api_key"`
	Customer      *string `json:"customer"`
}

// UpdateSettings changes only the fields present in the body. The API key is
// never echoed back, only its masked form.
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{Code: "BAD_REQUEST", Message: "invalid settings"}})
		return
	}
	writeJSON(w, http.StatusOK, h.Svc.ApplySettings(st, quoting.Settings{
		IssuerName:    req.IssuerName,
		IssuerContact: req.IssuerContact,
		APIKey:        req.APIKey,
		Customer:      req.Customer,
	}))
}

// ClearSession forgets the session and expires its cookie.
func (h *Handlers) ClearSession(w http.ResponseWriter, r *http.Request) {
	id, _ := state(r)
	h.Sessions.Drop(id)
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
