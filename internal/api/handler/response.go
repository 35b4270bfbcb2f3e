package handler

import (
	"customer-service/internal/api/handler/dto"
	"customer-service/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	internalErrorMessage = "An unexpected error occurred."

	maxRequestBodyBytes = 1 << 20
)

// decodeJSON reads exactly one JSON object of at most maxRequestBodyBytes
// and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, internalErrorMessage, ""
	var violations []dto.FieldViolation
	var validationErrors apperrors.ValidationErrors

	switch {
	case errors.As(err, &validationErrors):
		status, message = http.StatusBadRequest, "Request validation failed."
		for _, v := range validationErrors {
			violations = append(violations, dto.FieldViolation{Field: v.Field, Message: v.Message})
		}
		if len(validationErrors) == 1 {
			field = validationErrors[0].Field
		}
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrDatabase):
		slog.Default().Error("Database error", "error", err)
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message:    message,
			Field:      field,
			Violations: violations,
		},
	}
	respondJSON(w, status, resp)
}
