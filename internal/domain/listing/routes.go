package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns listing router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Get("/", h.List)
	r.Get("/available", h.Available)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/availability", h.Availability)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/my", h.ListMy)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
