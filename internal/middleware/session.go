package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// SessionCookieName holds the shopper's session id.
	SessionCookieName = "vitrine_session"

	// SessionContextKey is the context key for the session id
	SessionContextKey contextKey = "session_id"

	sessionMaxAge = 30 * 24 * 60 * 60
)

// SessionConfig controls the session cookie.
type SessionConfig struct {
	Secure bool
}

// Session assigns every visitor a session id. A missing or malformed cookie
// gets a fresh UUID, written back on the response.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := GetSessionIDFromCookie(r)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
				SetSessionCookie(w, id, cfg.Secure)
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID returns the session id set by Session, or "".
func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(SessionContextKey).(string); ok {
		return id
	}
	return ""
}

// GetSessionIDFromCookie reads the raw session cookie, "" when absent.
func GetSessionIDFromCookie(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// SetSessionCookie writes the session cookie.
func SetSessionCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
