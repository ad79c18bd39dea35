package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"lpg-backend/internal/repositories"
	"lpg-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders the printable reports the office runs at close of day
type ReportService struct {
	ledger         *repositories.LedgerRepository
	reconciliation *ReconciliationService
}

func NewReportService(ledger *repositories.LedgerRepository, reconciliation *ReconciliationService) *ReportService {
	return &ReportService{ledger: ledger, reconciliation: reconciliation}
}

// DayBookPDF renders one calendar day's per-type ledger totals
func (s *ReportService) DayBookPDF(ctx context.Context, tenantID int, day time.Time) ([]byte, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, timeutil.IST)
	to := from.Add(24 * time.Hour)

	rows, err := s.ledger.DayBook(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "LPG Distribution - Day Book", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Date: %s", from.Format("02-Jan-2006")), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Entry Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Debit (Rs)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Credit (Rs)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Entries", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	var totalDebit, totalCredit float64
	for _, row := range rows {
		pdf.CellFormat(60, 6, string(row.EntryType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", row.TotalDebit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", row.TotalCredit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%d", row.EntryCount), "1", 1, "C", false, 0, "")
		totalDebit += row.TotalDebit
		totalCredit += row.TotalCredit
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(60, 7, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", totalDebit), "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", totalCredit), "1", 0, "R", true, 0, "")
	pdf.CellFormat(50, 7, "", "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render day book pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ReconciliationPDF renders the current discrepancy report for the accountant
func (s *ReportService) ReconciliationPDF(ctx context.Context, tenantID int) ([]byte, error) {
	report, err := s.reconciliation.Report(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Balance Reconciliation Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Customers checked: %d, discrepancies: %d",
		report.TotalChecked, report.TotalDiscrepancies), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	if len(report.Discrepancies) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.SetFillColor(200, 255, 200)
		pdf.CellFormat(190, 10, "All balances consistent", "1", 1, "C", true, 0, "")
	} else {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(70, 7, "Customer", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Cached (Rs)", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Ledger (Rs)", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Variance (Rs)", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, d := range report.Discrepancies {
			name := d.CustomerName
			if len(name) > 32 {
				name = name[:29] + "..."
			}
			pdf.CellFormat(70, 6, name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", d.SystemBalance), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", d.RealBalance), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%+.2f", d.Variance), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render reconciliation pdf: %w", err)
	}
	return buf.Bytes(), nil
}
