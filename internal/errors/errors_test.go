package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecal/internal/domain"
)

func testHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestToAPIErrorDomainMapping(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid month", fmt.Errorf("month: %w", domain.ErrInvalidMonth), http.StatusBadRequest, "INVALID_MONTH"},
		{"invalid year", fmt.Errorf("year: %w", domain.ErrInvalidYear), http.StatusBadRequest, "INVALID_YEAR"},
		{"invalid date", fmt.Errorf("date: %w", domain.ErrInvalidDate), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"invalid duration", fmt.Errorf("duration: %w", domain.ErrInvalidDuration), http.StatusBadRequest, "INVALID_DURATION"},
		{"invalid pax", fmt.Errorf("pax: %w", domain.ErrInvalidPax), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"unknown tour", fmt.Errorf("tour: %w", domain.ErrUnknownTour), http.StatusNotFound, "TOUR_NOT_FOUND"},
		{"data unavailable", fmt.Errorf("data: %w", domain.ErrDataUnavailable), http.StatusNotFound, "DATA_UNAVAILABLE"},
		{"opaque error", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := h.toAPIError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}

func TestToAPIErrorPassesThroughAPIError(t *testing.T) {
	h := testHandler()
	orig := ErrValidation("duration", "must be numeric")

	apiErr := h.toAPIError(fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, apiErr)
}

func TestHandleErrorWritesEnvelope(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/A1/month/x", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, fmt.Errorf("month %q: %w", "x", domain.ErrInvalidMonth))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_MONTH", body.Error.ErrorCode)
	assert.Equal(t, "Month must be formatted YYYY-MM", body.Error.Message)
}

func TestHandleErrorNilIsNoop(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Zero(t, rec.Body.Len())
}

func TestInternalErrorNeverLeaksDetail(t *testing.T) {
	h := testHandler()
	apiErr := h.toAPIError(fmt.Errorf("dsn=user:hunter2@tcp(db:3306)/prod"))
	assert.Equal(t, "Internal server error", apiErr.Message)
	assert.Nil(t, apiErr.Details)
}

func TestErrValidationDetails(t *testing.T) {
	apiErr := ErrValidation("pax", "must be at least 1")
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	detail, ok := apiErr.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "pax", detail.Field)
}
