package photo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns photo routes, mounted under /listings/{listingID}/photos.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Upload)
		r.Patch("/{photoID}/cover", h.SetCover)
		r.Delete("/{photoID}", h.Delete)
	})

	return r
}
