package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pricecal/internal/errors"
)

// TourLister enumerates the loaded tour identifiers.
type TourLister interface {
	Tours() []string
	Revision() string
}

// HealthHandler answers health probes and exposes the admin cache
// invalidation hook used after out-of-band data refreshes.
type HealthHandler struct {
	service      CalendarServiceInterface
	repo         TourLister
	logger       *slog.Logger
	errorHandler *apierrors.Handler
	startedAt    time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service CalendarServiceInterface, repo TourLister, logger *slog.Logger, errorHandler *apierrors.Handler) *HealthHandler {
	return &HealthHandler{
		service:      service,
		repo:         repo,
		logger:       logger.With(slog.String("component", "health_handler")),
		errorHandler: errorHandler,
		startedAt:    time.Now(),
	}
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":        "ok",
		"uptime":        time.Since(h.startedAt).String(),
		"tours":         len(h.repo.Tours()),
		"data_revision": h.repo.Revision(),
	})
}

// ListTours handles GET /api/tours.
func (h *HealthHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"success": true,
		"tours":   h.repo.Tours(),
	})
}

// InvalidateCache handles POST /api/cache/invalidate.
func (h *HealthHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.service.InvalidateCache(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"success":       true,
		"data_revision": h.repo.Revision(),
	})
}

// Routes returns the health and admin routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", h.HealthCheck)
	r.Get("/tours", h.ListTours)
	r.Post("/cache/invalidate", h.InvalidateCache)
	return r
}
