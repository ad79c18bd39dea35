package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lpg-backend/internal/middleware"
	"lpg-backend/internal/models"
	"lpg-backend/internal/services"
	"lpg-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	Service *services.RazorpayService
}

func NewPaymentHandler(s *services.RazorpayService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": h.Service.IsEnabled()})
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOnlinePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	resp, err := h.Service.CreateOrder(r.Context(), tenantID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payment, err := h.Service.VerifyPayment(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, _ := strconv.Atoi(mux.Vars(r)["id"])
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	payments, err := h.Service.ListByCustomer(r.Context(), tenantID, customerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}
