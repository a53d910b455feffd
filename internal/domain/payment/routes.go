package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns payment router. The verify endpoint stays open: Chapa
// calls it server-to-server and sends no Bearer token.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/verify/{txRef}", h.Verify)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/initiate/{bookingID}", h.Initiate)
		r.Get("/booking/{bookingID}", h.GetByBooking)
	})

	return r
}
