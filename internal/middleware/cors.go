// Package middleware provides reusable HTTP middleware for the hike planner API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// preflightMaxAge is how long, in seconds, browsers may cache a preflight.
const preflightMaxAge = 600

// NewCORSHandler returns a middleware that applies CORS headers for the given
// origins (scheme + host, no trailing slash). Trips are created and read but
// never edited or deleted, so only GET and POST are allowed. Retry-After is
// exposed so the frontend can read the itinerary rate limit.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Retry-After", "X-Request-Id"},
		MaxAge:         preflightMaxAge,
	})
	return c.Handler
}
