package httpx

import (
	"crypto/subtle"
	"net/http"
)

const adminSecretHeader = "X-Admin-Secret"

// AdminMiddleware guards admin-only routes with a shared secret header.
func AdminMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(adminSecretHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				JSONError(r, w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
