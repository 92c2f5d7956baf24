package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// EnableCORS wraps the router with CORS handling for the given origins.
// A lone "*" allows any origin without credentials.
func EnableCORS(origins []string) func(http.Handler) http.Handler {
	anyOrigin := len(origins) == 0 || (len(origins) == 1 && origins[0] == "*")
	if anyOrigin {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !anyOrigin,
		MaxAge:           300,
	})
}
