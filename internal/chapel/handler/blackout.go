package handler

import (
	"encoding/json"
	"net/http"

	"bayview/internal/chapel/service"
	httputil "bayview/pkg/http"
	"bayview/pkg/logger"
	"bayview/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BlackoutHandler struct {
	service service.BlackoutService
	log     *logger.Logger
}

func NewBlackoutHandler(service service.BlackoutService, log *logger.Logger) *BlackoutHandler {
	return &BlackoutHandler{
		service: service,
		log:     log,
	}
}

func (h *BlackoutHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var period model.BlackoutPeriod
	if err := json.NewDecoder(r.Body).Decode(&period); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &period); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, period); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BlackoutHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	periods, err := h.service.GetAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, periods); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlackoutHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/blackouts", h.Create)
	router.GET("/api/v1/blackouts", h.GetAll)
}
