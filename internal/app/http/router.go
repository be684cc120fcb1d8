package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"handwerk-hero/go_backend/internal/app/http/handlers"
	"handwerk-hero/go_backend/internal/app/http/middleware"
)

type RouterOptions struct {
	InternalToken   string
	CORSAllowOrigin string
}

// NewRouter mounts the API. The saved-quote routes exist only when the
// service has a record store.
func NewRouter(h *handlers.Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.CORSAllowOrigin))

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.InternalAuth(opts.InternalToken))
		r.Use(middleware.Session(h.Sessions))

		r.Get("/status", h.Status)
		r.Put("/session/settings", h.UpdateSettings)
		r.Delete("/session", h.ClearSession)

		r.Route("/quote", func(r chi.Router) {
			r.Get("/", h.GetQuote)
			r.Post("/generate", h.GenerateQuote)
			r.Put("/items", h.ReplaceItems)
			r.Post("/items", h.AddItem)
			r.Delete("/items/{index}", h.RemoveItem)
			r.Put("/customer", h.SetCustomer)
			r.Get("/pdf", h.DownloadPDF)
			r.Get("/xlsx", h.DownloadSheet)
		})

		if h.Svc.Persistence() {
			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", h.ListQuotes)
				r.Post("/", h.SaveQuote)
				r.Get("/{id}", h.GetSavedQuote)
				r.Post("/{id}/load", h.LoadSavedQuote)
			})
		}
	})

	return r
}
