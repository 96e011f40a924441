package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "pricecal/internal/errors"
)

// QuoteRequest is the booking estimate request body.
type QuoteRequest struct {
	TourID    string   `json:"tour" validate:"required,max=64"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Duration  int      `json:"duration" validate:"required,min=1,max=30"`
	Pax       int      `json:"pax" validate:"required,min=1"`
	OptionIDs []string `json:"option_ids" validate:"max=32,dive,max=64"`
}

// QuoteHandler handles booking estimate requests.
type QuoteHandler struct {
	service      CalendarServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.Handler
	validate     *validator.Validate
}

// NewQuoteHandler creates a quote handler.
func NewQuoteHandler(service CalendarServiceInterface, logger *slog.Logger, errorHandler *apierrors.Handler) *QuoteHandler {
	return &QuoteHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "quote_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the quote routes.
func (h *QuoteHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.CreateQuote)
	return r
}

// CreateQuote handles POST /api/quote.
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(errs[0].Field(), "failed on "+errs[0].Tag()))
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	breakdown, err := h.service.BookingQuote(r.Context(), req.TourID, req.Date, req.Duration, req.Pax, req.OptionIDs)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"success":   true,
		"breakdown": breakdown,
	})
}
