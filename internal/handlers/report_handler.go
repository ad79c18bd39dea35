package handlers

import (
	"fmt"
	"net/http"

	"lpg-backend/internal/middleware"
	"lpg-backend/internal/services"
	"lpg-backend/internal/timeutil"
	"lpg-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// DayBook streams the daily cash book PDF. ?date=2006-01-02, default today.
func (h *ReportHandler) DayBook(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	day := timeutil.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := timeutil.ParseInIST("2006-01-02", dateStr)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	pdf, err := h.Service.DayBookPDF(r.Context(), tenantID, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=daybook-%s.pdf", day.Format("2006-01-02")))
	w.Write(pdf)
}

// Reconciliation streams the discrepancy report PDF
func (h *ReportHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := middleware.GetTenantIDFromContext(r.Context())

	pdf, err := h.Service.ReconciliationPDF(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=reconciliation.pdf")
	w.Write(pdf)
}
