package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"salesledger/internal/app"
	"salesledger/internal/core"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// classifyError maps a service error to an HTTP status and error code.
//
//	validation        → 400
//	not found         → 404
//	state, stock      → 409
//	retries exhausted → 503
//	anything else     → 500
func classifyError(err error) (int, string) {
	switch {
	case core.IsValidation(err), errors.Is(err, app.ErrInvalidRequest):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, core.ErrInsufficientStock):
		return http.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, core.ErrAlreadyVoided):
		return http.StatusConflict, "ALREADY_VOIDED"
	case core.IsStateConflict(err):
		return http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, core.ErrConflict):
		return http.StatusServiceUnavailable, "CONFLICT_RETRY"
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// writeServiceError reports err to the client. Internal errors are logged
// and their detail is not echoed back.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err),
		)
		message = "internal server error"
	}
	writeError(w, r, message, code, status)
}

// notFoundHandler returns HTTP 404 JSON for unknown routes.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, "route not found", "NOT_FOUND", http.StatusNotFound)
}
