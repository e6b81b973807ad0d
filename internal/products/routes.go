package products

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/low-stock", h.LowStockList)
		r.Get("/{id}", h.Show)
		r.Patch("/{id}", h.Update)
	})
}
