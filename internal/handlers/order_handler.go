package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"lpg-backend/internal/middleware"
	"lpg-backend/internal/models"
	"lpg-backend/internal/services"
	"lpg-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// proof images are phone photos; cap the upload at 10MB
const maxProofSize = 10 << 20

type OrderHandler struct {
	Service *services.DeliveryService
}

func NewOrderHandler(s *services.DeliveryService) *OrderHandler {
	return &OrderHandler{Service: s}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	order, err := h.Service.CreateOrder(r.Context(), tenantID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	order, err := h.Service.Get(r.Context(), tenantID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	status := models.OrderStatus(r.URL.Query().Get("status"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, err := h.Service.List(r.Context(), tenantID, status, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

// MyOrders returns the calling driver's open deliveries
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	driverID, _ := middleware.GetUserIDFromContext(r.Context())

	orders, err := h.Service.ListByDriver(r.Context(), tenantID, driverID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, orders)
}

// Complete closes a delivery. Multipart: a "data" JSON part plus an optional
// "proof" image part.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	driverID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.CompleteDeliveryRequest

	contentType := r.Header.Get("Content-Type")
	if len(contentType) >= 19 && contentType[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxProofSize); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid data field")
			return
		}
		if file, header, err := r.FormFile("proof"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxProofSize))
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "Failed to read proof image")
				return
			}
			req.ProofImage = data
			req.ProofContentType = header.Header.Get("Content-Type")
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	req.OrderID = orderID

	result, err := h.Service.Complete(r.Context(), tenantID, driverID, &req)
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

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	result, err := h.Service.Cancel(r.Context(), tenantID, userID, orderID, req.Reason)
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

func (h *OrderHandler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	var req models.BulkAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	result, err := h.Service.BulkAssign(r.Context(), tenantID, &req)
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
