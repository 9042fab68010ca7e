package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"bookline/internal/bookings/service"
	apperrors "bookline/pkg/errors"
	httputil "bookline/pkg/http"
	"bookline/pkg/logger"
	"bookline/pkg/model"
)

type CarHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewCarHandler(service service.BookingService, log *logger.Logger) *CarHandler {
	return &CarHandler{
		service: service,
		log:     log,
	}
}

func (h *CarHandler) GetAvailable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.writeError(w, apperrors.Validation("The 'date' query parameter is required", nil))
		return
	}

	target, err := model.ParseDate(dateStr)
	if err != nil {
		h.writeError(w, apperrors.Validation("Invalid date, expected YYYY-MM-DD", map[string]any{
			"date": dateStr,
		}))
		return
	}

	cars, err := h.service.AvailableCars(r.Context(), target)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, cars); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailable", "error", err)
	}
}

func (h *CarHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "GetAvailable", "error", writeErr)
	}
}

func (h *CarHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/cars/available", h.GetAvailable)
}
