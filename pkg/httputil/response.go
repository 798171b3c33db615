// Package httputil renders JSON responses and the error envelope shared by
// every handler.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/Sudhanshu9000/BazzarNet1.1/pkg/errors"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/logger"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/validator"
)

// ErrorEnvelope wraps every error body as {"error": {...}}.
type ErrorEnvelope struct {
	Error *ErrorResponse `json:"error"`
}

// ErrorResponse is the error payload.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// MessageResponse is the body of operations that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg} with status 200.
func WriteMessage(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, body *ErrorResponse) {
	if r != nil {
		body.RequestID = logger.CorrelationIDFromContext(r.Context())
	}
	WriteJSON(w, status, ErrorEnvelope{Error: body})
}

// WriteError renders err. AppErrors keep their code, message and status;
// bare sentinels map through apperrors.HTTPStatus; anything else becomes a
// logged 500 with a generic message. The request-scoped logger is preferred
// over fallback when the RequestLogger middleware is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, r, err)
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
		writeErrorBody(w, r, appErr.Status, &ErrorResponse{Code: appErr.Code, Message: appErr.Message})
		return
	}

	status := apperrors.HTTPStatus(err)
	body := &ErrorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"}
	switch {
	case appErr != nil:
		body.Code, body.Message = appErr.Code, appErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		body.Code, body.Message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrForbidden):
		body.Code, body.Message = "FORBIDDEN", "forbidden"
	case errors.Is(err, apperrors.ErrUnauthorized):
		body.Code, body.Message = "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, apperrors.ErrConflict):
		body.Code, body.Message = "CONFLICT", "conflict"
	case errors.Is(err, apperrors.ErrInvalidInput):
		body.Code, body.Message = "INVALID_INPUT", err.Error()
	}

	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() && fallback != nil {
			l = fallback
		}
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	writeErrorBody(w, r, status, body)
}

// WriteValidationError writes a 400. Field-level failures from the validator
// package are listed under "fields"; other errors (usually malformed JSON)
// are reported as INVALID_INPUT.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeErrorBody(w, r, http.StatusBadRequest, &ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		})
		return
	}

	writeErrorBody(w, r, http.StatusBadRequest, &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
}

// ParseUUID parses a path or query id. On failure it writes a 400 with code
// INVALID_PARAMETER and returns false so the handler can return early.
func ParseUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		writeErrorBody(w, r, http.StatusBadRequest, &ErrorResponse{
			Code:    "INVALID_PARAMETER",
			Message: "invalid id: " + param,
		})
		return uuid.Nil, false
	}
	return id, true
}
