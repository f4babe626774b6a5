package auth

import (
	"context"
	"net/http"
)

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue uses any as the key type. Using a package-private type
// prevents collisions: only THIS package can create a key of type contextKey,
// so only this package can read or write the username in the context.
type contextKey string

const usernameKey contextKey = "username"

// RequirePage is middleware for server-rendered routes. An anonymous request
// is redirected to the login page rather than given an error body — the
// browser should land on the form, not on JSON.
func RequirePage(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractUsername(r, sessions)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireJSON is middleware for API routes. An anonymous request gets a
// structured 401 body instead of a redirect.
func RequireJSON(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := extractUsername(r, sessions)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the session identity if a valid cookie is present but
// never blocks the request. Used on routes like / and /login that behave
// differently for logged-in users.
func OptionalAuth(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username, err := extractUsername(r, sessions); err == nil && username != "" {
				ctx := context.WithValue(r.Context(), usernameKey, username)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Username retrieves the authenticated username from the request context.
//
// Returns ("", false) if the request is anonymous. This is the single source
// of truth for "is this request authenticated" — handlers never read the
// cookie themselves.
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// WithUsername returns a context carrying the given session identity.
// Exported for handler tests, which bypass the cookie round-trip.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// extractUsername reads the session cookie and validates it.
func extractUsername(r *http.Request, sessions *SessionService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		// http.ErrNoCookie — not an error, just anonymous
		return "", err
	}

	return sessions.Validate(cookie.Value)
}
