package handlers

import (
	"encoding/json"
	"net/http"

	"lpg-backend/internal/middleware"
	"lpg-backend/internal/models"
	"lpg-backend/internal/services"
	"lpg-backend/pkg/utils"
)

type AuthHandler struct {
	Users *services.UserService
	TOTP  *services.TOTPService
}

func NewAuthHandler(users *services.UserService, totp *services.TOTPService) *AuthHandler {
	return &AuthHandler{Users: users, TOTP: totp}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.LoginRequest
		TOTPCode string `json:"totp_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Users.Login(r.Context(), &req.LoginRequest, req.TOTPCode)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Signup creates a staff account. Admin-only route; drivers do not self-register.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// New accounts always land in the creating admin's tenant
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	req.TenantID = tenantID

	user, err := h.Users.Signup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	user, err := h.Users.Get(r.Context(), tenantID, userID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}
	utils.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	users, err := h.Users.List(r.Context(), tenantID, r.URL.Query().Get("role"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, users)
}

func (h *AuthHandler) SetupTOTP(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	user, err := h.Users.Get(r.Context(), tenantID, userID)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	setup, err := h.TOTP.GenerateSetup(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, setup)
}

func (h *AuthHandler) VerifyTOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.TOTP.VerifyAndEnable(r.Context(), tenantID, userID, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Two-factor authentication enabled"})
}
