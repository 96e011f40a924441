package errors

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"pricecal/internal/domain"
	"pricecal/internal/infrastructure"
)

// Handler centralizes the mapping from core errors to API responses.
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates an error handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError logs err with request context and writes the mapped API
// error. Logging is best-effort; the response is always written.
func (h *Handler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := h.toAPIError(err)

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	render.Render(w, r, NewErrorResponse(apiErr))
}

// toAPIError maps domain sentinel errors onto the API taxonomy. Unknown
// errors become a 500 without leaking internals.
func (h *Handler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case stderrors.Is(err, domain.ErrInvalidMonth):
		return ErrInvalidMonth
	case stderrors.Is(err, domain.ErrInvalidYear):
		return ErrInvalidYear
	case stderrors.Is(err, domain.ErrInvalidDate):
		return ErrValidation("date", "Date must be formatted YYYY-MM-DD")
	case stderrors.Is(err, domain.ErrInvalidDuration):
		return ErrInvalidDuration
	case stderrors.Is(err, domain.ErrInvalidPax):
		return ErrValidation("pax", "Pax must be at least 1")
	case stderrors.Is(err, domain.ErrUnknownTour):
		return ErrTourNotFound
	case stderrors.Is(err, domain.ErrDataUnavailable):
		return ErrDataUnavailable
	}
	return ErrInternalServer
}
