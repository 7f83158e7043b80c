package middleware

import "net/http"

type SessionChecker interface {
	Exists(sessionID string) bool
}

// RequireSession rejects tokens whose session has been closed or has expired server side.
func RequireSession(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := SessionIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !sessions.Exists(sessionID) {
				http.Error(w, "session closed", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
