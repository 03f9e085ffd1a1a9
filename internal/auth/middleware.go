package auth

import (
	"context"
	"net/http"
)

// LoginPath is where guarded page routes send anonymous users.
// The redirect carries no return-to parameter: after logging in the user
// lands wherever the login flow leaves them, not back at the original
// action. That matches how the site has always behaved.
const LoginPath = "/auth/login/"

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// user ID in a request context — no collisions with other packages.
type contextKey string

const userIDKey contextKey = "userID"

// RequireLogin guards routes that need an authenticated user.
//
// Unlike an API-style 401, a missing or invalid session redirects (302) to
// the login flow — writes and the follow feed are pages, and pages bounce
// anonymous visitors to login rather than erroring.
func RequireLogin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional extracts the user identity when a valid session is present but
// never blocks the request. Public pages use it so logged-in visitors get
// personalized bits (their own "following" state on profiles) while
// anonymous visitors still see the page.
func Optional(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID from the request
// context. Returns ("", false) for anonymous requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given user ID.
// Handler tests use this to simulate an authenticated request without
// minting real tokens.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// extractUserID reads and validates the session cookie.
func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
