package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/vitrine/internal/domain"
	"github.com/dukerupert/vitrine/internal/middleware"
	"github.com/dukerupert/vitrine/internal/telemetry"
)

const genericInternalMessage = "An internal error occurred. Please try again later."

// codedError is implemented by package-local error types such as
// storage.StorageError that carry their own code.
type codedError interface {
	ErrorCode() string
	ErrorMessage() string
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable // 503
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// classify resolves the code and user-facing message for err.
func classify(err error) (code, message string) {
	var de *domain.Error
	if errors.As(err, &de) {
		return domain.ErrorCode(err), domain.ErrorMessage(err)
	}

	var ce codedError
	if errors.As(err, &ce) {
		code = ce.ErrorCode()
		if code == domain.EINTERNAL || code == "" {
			return domain.EINTERNAL, genericInternalMessage
		}
		return code, ce.ErrorMessage()
	}

	return domain.EINTERNAL, genericInternalMessage
}

// ErrorResponse logs err and writes it as {"error":{"code","message"}} for
// JSON clients, plain text otherwise. Server errors go to Sentry.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsValidationError(err) {
		ValidationErrorResponse(w, r, err)
		return
	}

	code, message := classify(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("code", code).Str("op", domain.ErrorOp(err)).Int("status", status).Msg("request failed")
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]any{
			"code": code,
			"op":   domain.ErrorOp(err),
			"path": r.URL.Path,
		})
	} else {
		logger.Debug().Err(err).Str("code", code).Int("status", status).Msg("request rejected")
	}

	if AcceptsJSON(r) {
		WriteJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
		return
	}

	http.Error(w, message, status)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ValidationErrorResponse writes field errors with a 400. Errors that are
// not validation errors fall through to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if !domain.IsValidationError(err) {
		ErrorResponse(w, r, err)
		return
	}
	fields := domain.GetValidationFields(err)

	middleware.GetLogger(r.Context()).Debug().Err(err).Msg("validation failed")

	if AcceptsJSON(r) {
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
			Code:    domain.EINVALID,
			Message: "Please correct the highlighted fields.",
			Fields:  fields,
		}})
		return
	}

	http.Error(w, err.Error(), http.StatusBadRequest)
}

// NotFoundResponse is a convenience wrapper for 404 errors.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested resource was not found"))
}

// InternalErrorResponse logs err and returns a generic 500.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	ErrorResponse(w, r, domain.Internal(err, "", "unexpected error"))
}

// AcceptsJSON reports whether the client wants JSON. The whole /api/
// surface does.
func AcceptsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}
