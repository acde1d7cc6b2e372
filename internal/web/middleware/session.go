package middleware

import (
	"net/http"

	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/logging"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	CookieName string
	Secure     bool
}

// Sessions binds each request to the visitor's search session, creating one
// (and setting the cookie) when the cookie is missing or the session expired.
// Handlers read it with core.SessionFromContext.
func Sessions(store *core.SessionStore, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(opts.CookieName); err == nil {
				id = c.Value
			}

			s, created := store.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     opts.CookieName,
					Value:    s.ID(),
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := core.ContextWithSession(r.Context(), s)
			if created {
				logging.FromContext(ctx).Debug("session created", "replaced", id != "")
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
