package handlers

import (
	"net/http"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Status reports what the session can do: persistence, credentials, model
// and the issuer identity in effect.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	_, st := state(r)
	writeJSON(w, http.StatusOK, h.Svc.Status(st))
}
