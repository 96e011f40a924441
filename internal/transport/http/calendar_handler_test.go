package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricecal/internal/calendar"
	"pricecal/internal/domain"
	apierrors "pricecal/internal/errors"
	"pricecal/internal/pricing"
)

type stubService struct {
	grid      *calendar.MonthGrid
	summary   *calendar.AnnualSummary
	breakdown *pricing.PriceBreakdown
	err       error

	lastMonth     string
	lastDuration  int
	lastHeatmap   bool
	lastShowEmpty bool
	invalidated   int
}

func (s *stubService) MonthView(_ context.Context, _, month string, duration int, heatmapOn, _ bool) (*calendar.MonthGrid, error) {
	s.lastMonth = month
	s.lastDuration = duration
	s.lastHeatmap = heatmapOn
	if s.err != nil {
		return nil, s.err
	}
	return s.grid, nil
}

func (s *stubService) AnnualView(_ context.Context, _ string, _, duration int, showEmpty bool) (*calendar.AnnualSummary, error) {
	s.lastDuration = duration
	s.lastShowEmpty = showEmpty
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func (s *stubService) BookingQuote(_ context.Context, _, _ string, _, _ int, _ []string) (*pricing.PriceBreakdown, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.breakdown, nil
}

func (s *stubService) Legend(*calendar.MonthGrid) []calendar.LegendEntry { return nil }

func (s *stubService) InvalidateCache(context.Context) error {
	s.invalidated++
	return s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCalendarRouter(svc CalendarServiceInterface) chi.Router {
	return newCalendarRouterShowEmpty(svc, false)
}

func newCalendarRouterShowEmpty(svc CalendarServiceInterface, showEmptyDefault bool) chi.Router {
	logger := testLogger()
	h := NewCalendarHandler(svc, logger, apierrors.NewHandler(logger), showEmptyDefault)
	r := chi.NewRouter()
	r.Mount("/calendar", h.Routes())
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetMonthSuccess(t *testing.T) {
	svc := &stubService{grid: &calendar.MonthGrid{TourID: "A1", Year: 2025, Month: 1}}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/month/2025-01?duration=4&heatmap=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["grid"])

	assert.Equal(t, "2025-01", svc.lastMonth)
	assert.Equal(t, 4, svc.lastDuration)
	assert.True(t, svc.lastHeatmap)
}

func TestGetMonthDefaults(t *testing.T) {
	svc := &stubService{grid: &calendar.MonthGrid{}}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/month/2025-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.lastDuration, "duration defaults to 1")
	assert.True(t, svc.lastHeatmap, "heatmap defaults on")
}

func TestGetMonthBadDuration(t *testing.T) {
	svc := &stubService{grid: &calendar.MonthGrid{}}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/month/2025-01?duration=four", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestGetMonthServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown tour", fmt.Errorf("tour %q: %w", "A1", domain.ErrUnknownTour), http.StatusNotFound, "TOUR_NOT_FOUND"},
		{"invalid month", fmt.Errorf("month %q: %w", "x", domain.ErrInvalidMonth), http.StatusBadRequest, "INVALID_MONTH"},
		{"data unavailable", fmt.Errorf("tour %q: %w", "A1", domain.ErrDataUnavailable), http.StatusNotFound, "DATA_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.err}
			router := newCalendarRouter(svc)

			req := httptest.NewRequest(http.MethodGet, "/calendar/A1/month/2025-01", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			errObj, ok := body["error"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, errObj["error_code"])
		})
	}
}

func TestTourCtxRejectsOverlongTour(t *testing.T) {
	svc := &stubService{grid: &calendar.MonthGrid{}}
	router := newCalendarRouter(svc)

	long := strings.Repeat("x", 65)
	req := httptest.NewRequest(http.MethodGet, "/calendar/"+long+"/month/2025-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLegend(t *testing.T) {
	svc := &stubService{grid: &calendar.MonthGrid{}}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/month/2025-01/legend?duration=4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastHeatmap, "legend always computes with heatmap on")
}

func TestGetYear(t *testing.T) {
	svc := &stubService{summary: &calendar.AnnualSummary{TourID: "A1", Year: 2025}}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/year/2025?duration=4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["summary"])
}

func TestGetYearShowEmptyParam(t *testing.T) {
	svc := &stubService{summary: &calendar.AnnualSummary{}}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/year/2025?show_empty=1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastShowEmpty, "show_empty=1 reaches the service")

	req = httptest.NewRequest(http.MethodGet, "/calendar/A1/year/2025?show_empty=0", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, svc.lastShowEmpty)
}

func TestGetYearShowEmptyConfigDefault(t *testing.T) {
	svc := &stubService{summary: &calendar.AnnualSummary{}}
	router := newCalendarRouterShowEmpty(svc, true)

	// No query parameter: the configured default applies.
	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/year/2025", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, svc.lastShowEmpty)

	// An explicit parameter overrides the default.
	req = httptest.NewRequest(http.MethodGet, "/calendar/A1/year/2025?show_empty=false", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, svc.lastShowEmpty)
}

func TestGetYearNonNumeric(t *testing.T) {
	svc := &stubService{}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/year/twentytwentyfive", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportYearHeaders(t *testing.T) {
	svc := &stubService{summary: &calendar.AnnualSummary{TourID: "A1", Year: 2025}}
	router := newCalendarRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/calendar/A1/year/2025/export?duration=4", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "A1-2025-prices.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?n=7&flag=yes&off=0", nil)

	v, err := queryInt(req, "n", 1)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, err = queryInt(req, "missing", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	assert.True(t, queryBool(req, "flag", false))
	assert.False(t, queryBool(req, "off", true))
	assert.True(t, queryBool(req, "missing", true))
}
