package services

import (
	"context"
	"errors"
	"testing"

	"lpg-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBalanceReader struct {
	balances []models.CustomerBalance
	listErr  error

	repairOK       bool
	repairErr      error
	repairedValue  float64
	repairedVer    int
	repairCustomer int
}

func (f *fakeBalanceReader) ListBalances(ctx context.Context, tenantID int) ([]models.CustomerBalance, error) {
	return f.balances, f.listErr
}

func (f *fakeBalanceReader) RepairBalance(ctx context.Context, tenantID, customerID int, correctBalance float64, expectedVersion int) (bool, error) {
	f.repairCustomer = customerID
	f.repairedValue = correctBalance
	f.repairedVer = expectedVersion
	return f.repairOK, f.repairErr
}

type fakeLedgerSummer struct {
	sums   map[int]float64
	sum    float64
	sumErr error
}

func (f *fakeLedgerSummer) SumsByCustomer(ctx context.Context, tenantID int) (map[int]float64, error) {
	return f.sums, f.sumErr
}

func (f *fakeLedgerSummer) SumForCustomer(ctx context.Context, tenantID, customerID int) (float64, error) {
	return f.sum, f.sumErr
}

func TestReport_FlagsOnlyBeyondTolerance(t *testing.T) {
	customers := &fakeBalanceReader{
		balances: []models.CustomerBalance{
			{ID: 1, Name: "Exact", CurrentBalance: 100.00, BalanceVersion: 3},
			{ID: 2, Name: "Within", CurrentBalance: 100.009, BalanceVersion: 1},
			{ID: 3, Name: "AtBoundary", CurrentBalance: 100.01, BalanceVersion: 2},
			{ID: 4, Name: "Beyond", CurrentBalance: 100.02, BalanceVersion: 7},
		},
	}
	ledger := &fakeLedgerSummer{
		sums: map[int]float64{1: 100.00, 2: 100.00, 3: 100.00, 4: 100.00},
	}
	svc := NewReconciliationService(customers, ledger, 0.01)

	report, err := svc.Report(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalChecked)
	// variance <= tolerance passes, only strictly greater is flagged
	require.Equal(t, 1, report.TotalDiscrepancies)
	d := report.Discrepancies[0]
	assert.Equal(t, 4, d.CustomerID)
	assert.Equal(t, "Beyond", d.CustomerName)
	assert.InDelta(t, 0.02, d.Variance, 1e-9)
	assert.Equal(t, 7, d.BalanceVersion)
}

func TestReport_CustomerWithoutPostingsExpectsZero(t *testing.T) {
	customers := &fakeBalanceReader{
		balances: []models.CustomerBalance{
			{ID: 1, Name: "NoPostingsZero", CurrentBalance: 0},
			{ID: 2, Name: "NoPostingsDrifted", CurrentBalance: 50},
		},
	}
	// neither customer appears in the grouped sums
	ledger := &fakeLedgerSummer{sums: map[int]float64{}}
	svc := NewReconciliationService(customers, ledger, 0.01)

	report, err := svc.Report(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 1, report.TotalDiscrepancies)
	assert.Equal(t, 2, report.Discrepancies[0].CustomerID)
	assert.Equal(t, 0.0, report.Discrepancies[0].RealBalance)
	assert.InDelta(t, 50.0, report.Discrepancies[0].Variance, 1e-9)
}

func TestReport_NegativeVarianceFlagged(t *testing.T) {
	customers := &fakeBalanceReader{
		balances: []models.CustomerBalance{
			{ID: 1, Name: "Under", CurrentBalance: 90},
		},
	}
	ledger := &fakeLedgerSummer{sums: map[int]float64{1: 100}}
	svc := NewReconciliationService(customers, ledger, 0.01)

	report, err := svc.Report(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, report.TotalDiscrepancies)
	assert.InDelta(t, -10.0, report.Discrepancies[0].Variance, 1e-9)
}

func TestRepair_RecomputesFromLedgerNotRequest(t *testing.T) {
	customers := &fakeBalanceReader{repairOK: true}
	ledger := &fakeLedgerSummer{sum: 240.50}
	svc := NewReconciliationService(customers, ledger, 0.01)

	// The caller claims 999; the repair must write the ledger sum instead
	repaired, err := svc.Repair(context.Background(), 1, &models.RepairBalanceRequest{
		CustomerID:      5,
		CorrectBalance:  999,
		ExpectedVersion: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 240.50, repaired)
	assert.Equal(t, 240.50, customers.repairedValue)
	assert.Equal(t, 5, customers.repairCustomer)
	assert.Equal(t, 3, customers.repairedVer)
}

func TestRepair_VersionConflict(t *testing.T) {
	customers := &fakeBalanceReader{repairOK: false}
	ledger := &fakeLedgerSummer{sum: 100}
	svc := NewReconciliationService(customers, ledger, 0.01)

	_, err := svc.Repair(context.Background(), 1, &models.RepairBalanceRequest{
		CustomerID:      5,
		ExpectedVersion: 2,
	})
	require.ErrorIs(t, err, ErrVersionConflict)
}

func TestRepair_PropagatesLedgerError(t *testing.T) {
	customers := &fakeBalanceReader{repairOK: true}
	ledger := &fakeLedgerSummer{sumErr: errors.New("connection reset")}
	svc := NewReconciliationService(customers, ledger, 0.01)

	_, err := svc.Repair(context.Background(), 1, &models.RepairBalanceRequest{CustomerID: 5})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrVersionConflict)
}
