package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns notification router. Every route requires authentication.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/unread_count", h.UnreadCount)
	r.Patch("/{id}/read", h.MarkRead)
	r.Post("/read_all", h.MarkAllRead)

	return r
}
