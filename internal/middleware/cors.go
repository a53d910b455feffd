package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSHandler configures cross-origin access for the browser frontend.
// Credentials are on, so the origin list must stay explicit, never "*".
func CORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600, // cache preflights for 10 minutes
	})
}
