package middleware

import (
	"crypto/subtle"
	"net/http"
)

const ProviderKeyHeader = "X-Provider-Key"

// RequireProvider admits settlement callbacks that present the configured provider key.
// Session bearer tokens are not accepted here. An empty key rejects every request.
func RequireProvider(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				http.Error(w, "provider access disabled", http.StatusForbidden)
				return
			}
			presented := r.Header.Get(ProviderKeyHeader)
			if presented == "" {
				http.Error(w, "missing provider key", http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				http.Error(w, "invalid provider key", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
