package reports

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Post("/", h.Generate)
		r.Post("/csv", h.ExportCSV)
	})
}
