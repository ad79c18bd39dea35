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

type HandoverHandler struct {
	Service *services.HandoverService
	Wallets *services.WalletService
}

func NewHandoverHandler(s *services.HandoverService, wallets *services.WalletService) *HandoverHandler {
	return &HandoverHandler{Service: s, Wallets: wallets}
}

// Submit is the driver-side entry: "I'm ready to hand over this cash and
// these empties"
func (h *HandoverHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitHandoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	driverID, _ := middleware.GetUserIDFromContext(r.Context())

	handover, err := h.Service.Submit(r.Context(), tenantID, driverID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, handover)
}

// Approve settles a pending handover (admin side of the maker-checker pair)
func (h *HandoverHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	adminID, _ := middleware.GetUserIDFromContext(r.Context())

	result, err := h.Service.Approve(r.Context(), tenantID, id, adminID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !result.Success {
		utils.Error(w, http.StatusUnprocessableEntity, result.Message)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *HandoverHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	adminID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.Service.Reject(r.Context(), tenantID, id, adminID, req.Reason); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Handover rejected"})
}

func (h *HandoverHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	handovers, err := h.Service.ListPending(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, handovers)
}

// MyHandovers returns the calling driver's handover history
func (h *HandoverHandler) MyHandovers(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	driverID, _ := middleware.GetUserIDFromContext(r.Context())

	handovers, err := h.Service.ListByDriver(r.Context(), tenantID, driverID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, handovers)
}

// MyWallet returns the calling driver's cash liability
func (h *HandoverHandler) MyWallet(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	wallet, err := h.Wallets.Get(r.Context(), tenantID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, wallet)
}

// ListWallets shows every driver's liability to the admin
func (h *HandoverHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	wallets, err := h.Wallets.List(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, wallets)
}
