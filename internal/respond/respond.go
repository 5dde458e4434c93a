// Package respond writes the JSON envelopes shared by every API handler:
// {"data": ...} for success, {"data": ..., "meta": ...} for pages, and
// {"error": ..., "code": ...} for failures.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"polidex/internal/apperr"
	"polidex/internal/middleware"
)

// SuccessEnvelope wraps a single payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PageEnvelope wraps a payload with list metadata.
type PageEnvelope struct {
	Data any `json:"data"`
	Meta any `json:"meta"`
}

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// OK writes a 200 with data in the success envelope.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, SuccessEnvelope{Data: data})
}

// Page writes a 200 with data and list metadata.
func Page(w http.ResponseWriter, data, meta any) {
	JSON(w, http.StatusOK, PageEnvelope{Data: data, Meta: meta})
}

// Error renders err. Errors that are not *apperr.AppError become a 500
// whose cause is logged but not sent.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.As(err)
	if ae == nil {
		ae = apperr.Internal(err)
	}

	if ae.HTTPStatus >= http.StatusInternalServerError {
		slog.Error("api server error",
			"code", ae.Code,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"cause", ae.Cause,
		)
	}

	JSON(w, ae.HTTPStatus, ErrorEnvelope{
		Error:   ae.Message,
		Code:    ae.Code,
		Details: ae.Details,
	})
}
