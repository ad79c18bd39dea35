package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"lpg-backend/internal/cache"
	"lpg-backend/internal/metrics"
	"lpg-backend/internal/models"
)

// balanceReader is the slice of CustomerRepository the scan needs.
type balanceReader interface {
	ListBalances(ctx context.Context, tenantID int) ([]models.CustomerBalance, error)
	RepairBalance(ctx context.Context, tenantID, customerID int, correctBalance float64, expectedVersion int) (bool, error)
}

// ledgerSummer is the slice of LedgerRepository the scan needs.
type ledgerSummer interface {
	SumsByCustomer(ctx context.Context, tenantID int) (map[int]float64, error)
	SumForCustomer(ctx context.Context, tenantID, customerID int) (float64, error)
}

// ReconciliationService detects and repairs drift between the denormalized
// customers.current_balance and the sum of ledger postings.
type ReconciliationService struct {
	customers balanceReader
	ledger    ledgerSummer
	tolerance float64
}

func NewReconciliationService(customers balanceReader, ledger ledgerSummer, tolerance float64) *ReconciliationService {
	return &ReconciliationService{customers: customers, ledger: ledger, tolerance: tolerance}
}

// Report scans every customer of a tenant and flags those whose cached
// balance differs from their ledger sum by more than the tolerance. The
// tolerance absorbs float rounding drift; a customer with no postings is
// expected to carry a zero balance.
func (s *ReconciliationService) Report(ctx context.Context, tenantID int) (*models.ReconciliationReport, error) {
	cacheKey := "reconciliation:" + strconv.Itoa(tenantID)
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		var report models.ReconciliationReport
		if err := json.Unmarshal(data, &report); err == nil {
			return &report, nil
		}
	}

	balances, err := s.customers.ListBalances(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("reconciliation scan failed: %w", err)
	}
	sums, err := s.ledger.SumsByCustomer(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("reconciliation scan failed: %w", err)
	}

	report := &models.ReconciliationReport{
		Discrepancies: []models.Discrepancy{},
		TotalChecked:  len(balances),
	}
	for _, b := range balances {
		real := sums[b.ID] // absent from the map means no postings, real balance 0
		variance := b.CurrentBalance - real
		if math.Abs(variance) <= s.tolerance {
			continue
		}
		report.Discrepancies = append(report.Discrepancies, models.Discrepancy{
			CustomerID:     b.ID,
			CustomerName:   b.Name,
			SystemBalance:  b.CurrentBalance,
			RealBalance:    real,
			Variance:       variance,
			BalanceVersion: b.BalanceVersion,
		})
	}
	report.TotalDiscrepancies = len(report.Discrepancies)

	metrics.ReconciliationDiscrepancies.WithLabelValues(strconv.Itoa(tenantID)).
		Set(float64(report.TotalDiscrepancies))

	if data, err := json.Marshal(report); err == nil {
		cache.SetCached(ctx, cacheKey, data, 5*time.Minute)
	}
	return report, nil
}

// Repair overwrites one customer's cached balance with their ledger sum,
// recomputed now rather than trusted from the request. The version check makes
// the write conditional: if postings landed since the scan that produced
// ExpectedVersion, nothing is written and the caller must re-scan.
func (s *ReconciliationService) Repair(ctx context.Context, tenantID int, req *models.RepairBalanceRequest) (float64, error) {
	real, err := s.ledger.SumForCustomer(ctx, tenantID, req.CustomerID)
	if err != nil {
		return 0, fmt.Errorf("repair failed: %w", err)
	}

	ok, err := s.customers.RepairBalance(ctx, tenantID, req.CustomerID, real, req.ExpectedVersion)
	if err != nil {
		return 0, fmt.Errorf("repair failed: %w", err)
	}
	if !ok {
		return 0, ErrVersionConflict
	}

	tenant := strconv.Itoa(tenantID)
	cache.InvalidateCustomerCaches(ctx, tenant)
	cache.InvalidateReconciliationCache(ctx, tenant)
	return real, nil
}
