package settlements

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/settlements", func(r chi.Router) {
		r.Get("/", h.ListByInvoice)
		r.Post("/", h.Create)
	})
}
