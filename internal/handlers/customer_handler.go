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

type CustomerHandler struct {
	Service *services.CustomerService
}

func NewCustomerHandler(s *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Service: s}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	customer, err := h.Service.Create(r.Context(), tenantID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	customer, err := h.Service.Get(r.Context(), tenantID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req models.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	if err := h.Service.Update(r.Context(), tenantID, id, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Customer updated"})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	if err := h.Service.Delete(r.Context(), tenantID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	if phone := r.URL.Query().Get("phone"); phone != "" {
		customers, err := h.Service.SearchByPhone(r.Context(), tenantID, phone)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, customers)
		return
	}

	customers, err := h.Service.List(r.Context(), tenantID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

// PostLedgerEntry records a manual posting (adjustment, deposit, refund)
func (h *CustomerHandler) PostLedgerEntry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLedgerEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	req.CustomerID, _ = strconv.Atoi(mux.Vars(r)["id"])
	req.CreatedByUserID = userID

	entry, err := h.Service.PostLedgerEntry(r.Context(), tenantID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

// Statement returns a customer's ledger history
func (h *CustomerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.Service.Statement(r.Context(), tenantID, id, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}

// LedgerEntries is the tenant-wide audit view with filters
func (h *CustomerHandler) LedgerEntries(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	filter := &models.LedgerFilter{
		EntryType: models.LedgerEntryType(r.URL.Query().Get("type")),
	}
	filter.CustomerID, _ = strconv.Atoi(r.URL.Query().Get("customer_id"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.Service.LedgerEntries(r.Context(), tenantID, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}
