package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

const (
	// LoggerContextKey is the context key for storing the request-scoped logger
	LoggerContextKey contextKey = "logger"
)

// WithRequestLogger injects a request-scoped logger carrying method, path,
// request id and session id. Place it after RequestID and Session.
func WithRequestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lc := base.With().
				Str("method", r.Method).
				Str("path", r.URL.Path)

			if requestID := GetRequestID(r.Context()); requestID != "" {
				lc = lc.Str("request_id", requestID)
			}
			if sessionID := GetSessionID(r.Context()); sessionID != "" {
				lc = lc.Str("session_id", sessionID)
			}

			logger := lc.Logger()
			ctx := context.WithValue(r.Context(), LoggerContextKey, &logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger retrieves the request-scoped logger from the context.
// Without one it returns the fallback if given, else a disabled logger.
func GetLogger(ctx context.Context, fallback ...zerolog.Logger) *zerolog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*zerolog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 {
		return &fallback[0]
	}
	nop := zerolog.Nop()
	return &nop
}
