package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondSuccess wraps data in the success envelope
func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, domain.SuccessEnvelope{
		Success: true,
		Data:    data,
	})
}

// respondError sends the uniform error envelope for a taxonomy code
func respondError(w http.ResponseWriter, code domain.ErrorCode, message string) {
	respondJSON(w, code.HTTPStatus(), domain.ErrorEnvelope{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// respondValidationError sends VALIDATION_ERROR with per-field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[toJSONFieldName(fe.Field())] = formatValidationError(fe)
		}
	}

	respondJSON(w, domain.CodeValidationError.HTTPStatus(), domain.ErrorEnvelope{
		Success: false,
		Error:   "one or more fields failed validation",
		Code:    domain.CodeValidationError,
		Fields:  fields,
	})
}

// respondServiceError maps service sentinel errors to taxonomy codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		respondError(w, domain.CodeUnauthorized, "authentication required")
	case errors.Is(err, service.ErrPermissionDenied):
		respondError(w, domain.CodeForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrZoneNotFound):
		respondError(w, domain.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrZoneHasCustomers):
		respondError(w, domain.CodeConflict, err.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRole):
		respondError(w, domain.CodeValidationError, err.Error())
	default:
		respondError(w, domain.CodeInternal, "internal server error")
	}
}

// decodeAndValidate parses the request body and runs struct validation.
// Returns false after writing the error response when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondError(w, domain.CodeValidationError, "invalid request body")
		return false
	}
	if err := validate.Struct(target); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseUUIDParam parses a chi URL parameter as a UUID. Returns false after
// writing the error response when the value is malformed.
func parseUUIDParam(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, domain.CodeValidationError, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", toJSONFieldName(fe.Field()))
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "uuid":
		return "Must be a valid UUID"
	case "datetime":
		return fmt.Sprintf("Must match format %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// toJSONFieldName converts a Go struct field name to its JSON equivalent (camelCase)
func toJSONFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
