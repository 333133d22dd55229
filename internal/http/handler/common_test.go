package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kardexcare/service-api/internal/domain"
	"github.com/kardexcare/service-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorEnvelope {
	t.Helper()
	var envelope domain.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func TestRespondServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   domain.ErrorCode
	}{
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, domain.CodeUnauthorized},
		{"permission denied", service.ErrPermissionDenied, http.StatusForbidden, domain.CodeForbidden},
		{"not found", service.ErrNotFound, http.StatusNotFound, domain.CodeNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound, domain.CodeNotFound},
		{"zone not found", service.ErrZoneNotFound, http.StatusNotFound, domain.CodeNotFound},
		{"conflict", service.ErrConflict, http.StatusConflict, domain.CodeConflict},
		{"already assigned", service.ErrAlreadyAssigned, http.StatusConflict, domain.CodeConflict},
		{"zone has customers", service.ErrZoneHasCustomers, http.StatusConflict, domain.CodeConflict},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest, domain.CodeValidationError},
		{"invalid status", service.ErrInvalidStatus, http.StatusBadRequest, domain.CodeValidationError},
		{"invalid role", service.ErrInvalidRole, http.StatusBadRequest, domain.CodeValidationError},
		{"unexpected error", errors.New("db exploded"), http.StatusInternalServerError, domain.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			envelope := decodeErrorEnvelope(t, rec)
			assert.False(t, envelope.Success)
			assert.Equal(t, tc.code, envelope.Code)
			assert.NotEmpty(t, envelope.Error)
		})
	}

	t.Run("wrapped sentinels still map", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondServiceError(rec, errors.Join(errors.New("row 3"), service.ErrInvalidInput))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("internal errors never leak details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		respondServiceError(rec, errors.New("pq: password authentication failed"))

		envelope := decodeErrorEnvelope(t, rec)
		assert.Equal(t, "internal server error", envelope.Error)
	})
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{"))

		var target domain.CreateServiceZoneRequest
		assert.False(t, decodeAndValidate(rec, req, &target))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("field validation failures are itemized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"shortForm":"TOOLONGSHORTFORM"}`))

		var target domain.CreateServiceZoneRequest
		assert.False(t, decodeAndValidate(rec, req, &target))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var envelope domain.ErrorEnvelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		assert.Equal(t, domain.CodeValidationError, envelope.Code)
		assert.Contains(t, envelope.Fields, "name")
		assert.Contains(t, envelope.Fields, "shortForm")
	})

	t.Run("valid payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"Central Zone"}`))

		var target domain.CreateServiceZoneRequest
		assert.True(t, decodeAndValidate(rec, req, &target))
		assert.Equal(t, "Central Zone", target.Name)
	})
}

func TestParseUUIDParam(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		id, ok := parseUUIDParam(rec, "7f9c24e5-0a5b-4c2e-9d4f-3f6a1b8e2c01")
		assert.True(t, ok)
		assert.Equal(t, "7f9c24e5-0a5b-4c2e-9d4f-3f6a1b8e2c01", id.String())
	})

	t.Run("malformed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		_, ok := parseUUIDParam(rec, "not-a-uuid")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
