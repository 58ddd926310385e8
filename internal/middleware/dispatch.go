package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const SetupPath = "/setup-required"

func exempt(path string) bool {
	return path == SetupPath || strings.HasPrefix(path, "/static/")
}

// SetupGuard sends every request except the setup notice and static
// assets to the setup notice while required is true.
func SetupGuard(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if required && !exempt(r.URL.Path) {
				http.Redirect(w, r, SetupPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type Readier interface {
	EnsureReady(ctx context.Context) error
}

// Ready bootstraps the store on the first request that needs it. A failed
// bootstrap fails the request and is retried by the next one. The setup
// page and anything under /static/ never trigger a bootstrap, so assets keep
// loading while the database is unreachable.
func Ready(store Readier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !exempt(r.URL.Path) {
				if err := store.EnsureReady(r.Context()); err != nil {
					log.Ctx(r.Context()).Error().Err(err).Msg("store bootstrap failed")
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
