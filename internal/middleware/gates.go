package middleware

import (
	"net/http"

	"github.com/vaughan-dsouza/clinicbook/internal/models"
	"github.com/vaughan-dsouza/clinicbook/internal/session"
)

// RequireAuth redirects to /login unless the request carries a valid
// session, which it then places in the request context.
func RequireAuth(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := sm.Current(r)
			if !ok {
				sm.Flash(w, r, models.LevelWarning, "Please log in first.")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := session.WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after RequireAuth. Non-admins are sent home.
func RequireAdmin(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := session.FromContext(r.Context())
			if !ok || !claims.IsAdmin {
				sm.Flash(w, r, models.LevelDanger, "Only admins can access that page.")
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
