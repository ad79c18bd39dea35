package handlers

import (
	"errors"
	"net/http"

	"lpg-backend/internal/services"
	"lpg-backend/pkg/utils"
)

// writeServiceError maps service errors onto HTTP statuses. Domain
// rejections keep their message; anything unexpected becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrVersionConflict):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrCreditLimit):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
