package handler

import (
	"encoding/json"
	"net/http"

	"bayview/internal/memorial/repository"
	"bayview/internal/memorial/service"
	httputil "bayview/pkg/http"
	"bayview/pkg/logger"
	"bayview/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PrepaymentHandler struct {
	service service.PrepaymentService
	log     *logger.Logger
}

func NewPrepaymentHandler(service service.PrepaymentService, log *logger.Logger) *PrepaymentHandler {
	return &PrepaymentHandler{
		service: service,
		log:     log,
	}
}

type redeemRequest struct {
	BookingID string `json:"booking_id"`
	Note      string `json:"note,omitempty"`
}

func (h *PrepaymentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var credit model.PrepaymentCredit
	if err := json.NewDecoder(r.Body).Decode(&credit); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &credit); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, credit); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PrepaymentHandler) Redeem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	submissionID := ps.ByName("submission_id")

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Redeem", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Redeem(r.Context(), submissionID, req.BookingID, req.Note)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Redeem", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Redeem", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PrepaymentHandler) Lookup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	summaries, err := h.service.Lookup(r.Context(), repository.LookupQuery{
		SubmissionID:   query.Get("submission_id"),
		PurchaserPhone: query.Get("purchaser_phone"),
		PurchaserEmail: query.Get("purchaser_email"),
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Lookup", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, summaries); err != nil {
		h.log.Error("failed to write success response", "handler", "Lookup", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PrepaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/prepayments", h.Create)
	router.GET("/api/v1/prepayments", h.Lookup)
	router.POST("/api/v1/prepayments/id/:submission_id/redeem", h.Redeem)
}
