package classify

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers classification routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
	r.Get("/clients", h.ListClients)

	r.Route("/classify", func(r chi.Router) {
		r.Post("/", h.Classify)
		r.Post("/report", h.ClassifyReport)
	})
}
