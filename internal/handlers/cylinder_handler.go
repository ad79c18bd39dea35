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

type CylinderHandler struct {
	Service *services.CylinderService
}

func NewCylinderHandler(s *services.CylinderService) *CylinderHandler {
	return &CylinderHandler{Service: s}
}

func (h *CylinderHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCylindersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	created, err := h.Service.RegisterBatch(r.Context(), tenantID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]int{"registered": created})
}

func (h *CylinderHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req models.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	moved, err := h.Service.Dispatch(r.Context(), tenantID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int64{"dispatched": moved})
}

func (h *CylinderHandler) Get(w http.ResponseWriter, r *http.Request) {
	serial := mux.Vars(r)["serial"]
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	cylinder, err := h.Service.Get(r.Context(), tenantID, serial)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cylinder)
}

// List filters by holder and/or status via query parameters
func (h *CylinderHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	status := models.CylinderStatus(r.URL.Query().Get("status"))

	holderType := r.URL.Query().Get("holder")
	if holderType == "" {
		cylinders, err := h.Service.ListByStatus(r.Context(), tenantID, status)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, cylinders)
		return
	}

	holder := models.Holder{Type: models.HolderType(holderType)}
	if idStr := r.URL.Query().Get("holder_id"); idStr != "" {
		id, err := strconv.Atoi(idStr)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid holder_id")
			return
		}
		holder.ID = &id
	}

	cylinders, err := h.Service.ListByHolder(r.Context(), tenantID, holder, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cylinders)
}

// MyCylinders returns the calling driver's own stock
func (h *CylinderHandler) MyCylinders(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	status := models.CylinderStatus(r.URL.Query().Get("status"))

	cylinders, err := h.Service.ListByHolder(r.Context(), tenantID, models.DriverHolder(userID), status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cylinders)
}

func (h *CylinderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	serial := mux.Vars(r)["serial"]
	var req struct {
		Status models.CylinderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	if err := h.Service.SetStatus(r.Context(), tenantID, serial, req.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

func (h *CylinderHandler) ReturnToWarehouse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SerialNumbers []string              `json:"serial_numbers"`
		Status        models.CylinderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	returned, err := h.Service.ReturnToWarehouse(r.Context(), tenantID, req.SerialNumbers, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int64{"returned": returned})
}
