package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/utafrali/review-service/pkg/errors"
	"github.com/utafrali/review-service/pkg/logger"
	"github.com/utafrali/review-service/pkg/validator"
)

// Response is the standard JSON response envelope.
type Response struct {
	Data  any      `json:"data,omitempty"`
	Error *Problem `json:"error,omitempty"`
}

// Problem is a machine-readable error payload. InvalidParams carries
// field-level messages for validation failures.
type Problem struct {
	Code          string            `json:"code"`
	Message       string            `json:"message"`
	Timestamp     time.Time         `json:"timestamp"`
	RequestID     string            `json:"request_id,omitempty"`
	InvalidParams map[string]string `json:"invalid_params,omitempty"`
}

// NewProblem builds an error payload with the current timestamp and the
// request's correlation ID.
func NewProblem(r *http.Request, code, message string) *Problem {
	return &Problem{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardized error response based on the error type.
// It handles AppError, the sentinel errors, and validation errors, and logs
// internal server errors. It prefers the request-scoped logger from context
// (set by the RequestLogger middleware) over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &Problem{
				Code:          "VALIDATION_ERROR",
				Message:       "request validation failed",
				Timestamp:     time.Now().UTC(),
				RequestID:     requestID,
				InvalidParams: valErr.Fields(),
			},
		})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteJSON(w, appErr.Status, Response{
			Error: &Problem{
				Code:      appErr.Code,
				Message:   appErr.Message,
				Timestamp: time.Now().UTC(),
				RequestID: requestID,
			},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		code = "CONFLICT"
		message = err.Error()
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{
		Error: &Problem{
			Code:      code,
			Message:   message,
			Timestamp: time.Now().UTC(),
			RequestID: requestID,
		},
	})
}
