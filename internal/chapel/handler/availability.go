package handler

import (
	"net/http"
	"time"

	"bayview/internal/chapel/service"
	apperrors "bayview/pkg/errors"
	httputil "bayview/pkg/http"
	"bayview/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Check answers whether a slot can be booked without creating anything.
// The answer is advisory: creation re-checks inside its transaction.
func (h *AvailabilityHandler) Check(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	dateStr := query.Get("service_date")
	serviceTime := query.Get("service_time")
	serviceType := query.Get("service_type")

	if dateStr == "" || serviceTime == "" || serviceType == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(
			"'service_date', 'service_time' and 'service_type' query parameters are required",
		)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid service_date format, must be YYYY-MM-DD")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	decision, err := h.service.Check(r.Context(), date, serviceTime, serviceType)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Check", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, decision); err != nil {
		h.log.Error("failed to write success response", "handler", "Check", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Check)
}
