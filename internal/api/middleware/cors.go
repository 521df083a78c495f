package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows any origin, as the web form is served from another host
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Classification-ID", "Content-Disposition"},
	}).Handler
}
