package handlers

import (
	"encoding/json"
	"net/http"

	"lpg-backend/internal/middleware"
	"lpg-backend/internal/models"
	"lpg-backend/internal/services"
	"lpg-backend/pkg/utils"
)

type ReconciliationHandler struct {
	Service *services.ReconciliationService
}

func NewReconciliationHandler(s *services.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{Service: s}
}

// Report runs (or serves the cached) balance-consistency scan
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	report, err := h.Service.Report(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

// Repair overwrites one customer's cached balance with their ledger sum. A
// 409 means the balance moved since the scan and the client must re-scan.
func (h *ReconciliationHandler) Repair(w http.ResponseWriter, r *http.Request) {
	var req models.RepairBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	repaired, err := h.Service.Repair(r.Context(), tenantID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message":          "Balance repaired",
		"customer_id":      req.CustomerID,
		"repaired_balance": repaired,
	})
}
