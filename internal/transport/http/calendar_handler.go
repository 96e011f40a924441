package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pricecal/internal/errors"
	"pricecal/internal/exporter"
)

// CalendarHandler handles calendar HTTP requests. showEmptyDefault is the
// configured fallback for the show_empty query parameter.
type CalendarHandler struct {
	service          CalendarServiceInterface
	logger           *slog.Logger
	errorHandler     *apierrors.Handler
	showEmptyDefault bool
}

// NewCalendarHandler creates a calendar handler.
func NewCalendarHandler(service CalendarServiceInterface, logger *slog.Logger, errorHandler *apierrors.Handler, showEmptyDefault bool) *CalendarHandler {
	return &CalendarHandler{
		service:          service,
		logger:           logger.With(slog.String("component", "calendar_handler")),
		errorHandler:     errorHandler,
		showEmptyDefault: showEmptyDefault,
	}
}

// Routes returns the calendar routes.
func (h *CalendarHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/{tour}", func(r chi.Router) {
		r.Use(h.TourCtx)
		r.Get("/month/{month}", h.GetMonth)
		r.Get("/month/{month}/legend", h.GetLegend)
		r.Get("/year/{year}", h.GetYear)
		r.Get("/year/{year}/export", h.ExportYear)
	})

	return r
}

// TourCtx validates the tour parameter.
func (h *CalendarHandler) TourCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tour := chi.URLParam(r, "tour")
		if tour == "" || len(tour) > 64 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("tour", "Tour identifier is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetMonth handles GET /api/calendar/{tour}/month/{month}.
func (h *CalendarHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	tour := chi.URLParam(r, "tour")
	month := chi.URLParam(r, "month")

	duration, err := queryInt(r, "duration", 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("duration", err.Error()))
		return
	}
	heatmapOn := queryBool(r, "heatmap", true)
	confirmedOnly := queryBool(r, "confirmed_only", false)

	grid, err := h.service.MonthView(r.Context(), tour, month, duration, heatmapOn, confirmedOnly)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"grid":    grid,
		"legend":  h.service.Legend(grid),
	})
}

// GetLegend handles GET /api/calendar/{tour}/month/{month}/legend.
func (h *CalendarHandler) GetLegend(w http.ResponseWriter, r *http.Request) {
	tour := chi.URLParam(r, "tour")
	month := chi.URLParam(r, "month")

	duration, err := queryInt(r, "duration", 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("duration", err.Error()))
		return
	}

	grid, err := h.service.MonthView(r.Context(), tour, month, duration, true, false)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"legend":  h.service.Legend(grid),
	})
}

// GetYear handles GET /api/calendar/{tour}/year/{year}.
func (h *CalendarHandler) GetYear(w http.ResponseWriter, r *http.Request) {
	tour := chi.URLParam(r, "tour")

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "Year must be numeric"))
		return
	}
	duration, err := queryInt(r, "duration", 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("duration", err.Error()))
		return
	}
	showEmpty := queryBool(r, "show_empty", h.showEmptyDefault)

	summary, err := h.service.AnnualView(r.Context(), tour, year, duration, showEmpty)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}

// ExportYear handles GET /api/calendar/{tour}/year/{year}/export and
// streams the annual summary as an xlsx workbook.
func (h *CalendarHandler) ExportYear(w http.ResponseWriter, r *http.Request) {
	tour := chi.URLParam(r, "tour")

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "Year must be numeric"))
		return
	}
	duration, err := queryInt(r, "duration", 1)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("duration", err.Error()))
		return
	}
	showEmpty := queryBool(r, "show_empty", h.showEmptyDefault)

	summary, err := h.service.AnnualView(r.Context(), tour, year, duration, showEmpty)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s-%d-prices.xlsx", tour, year)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := exporter.WriteAnnualWorkbook(w, summary); err != nil {
		// Headers are already out; log and drop the connection.
		h.logger.ErrorContext(r.Context(), "workbook export failed",
			slog.String("tour", tour),
			slog.Int("year", year),
			slog.String("error", err.Error()),
		)
	}
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric", name)
	}
	return v, nil
}

// queryBool reads a boolean query parameter with a default.
func queryBool(r *http.Request, name string, def bool) bool {
	switch r.URL.Query().Get(name) {
	case "":
		return def
	case "1", "true", "yes":
		return true
	}
	return false
}
