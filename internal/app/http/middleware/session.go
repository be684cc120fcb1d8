package middleware

import (
	"context"
	"net/http"

	"handwerk-hero/go_backend/internal/app/session"
)

type sessionKey struct{}

type sessionRef struct {
	id    string
	state *session.State
}

// Session resolves the session cookie, issuing a new one when needed.
func Session(reg *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(session.CookieName); err == nil {
				id = c.Value
			}
			sid, st, created := reg.Resolve(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     session.CookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, sessionRef{id: sid, state: st})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session resolved by Session.
func SessionFrom(ctx context.Context) (id string, st *session.State, ok bool) {
	ref, ok := ctx.Value(sessionKey{}).(sessionRef)
	if !ok {
		return "", nil, false
	}
	return ref.id, ref.state, true
}
