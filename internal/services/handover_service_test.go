package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lpg-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandoverStore struct {
	createErr error
	created   *models.HandoverRequest

	getResult *models.HandoverRequest
	getErr    error

	rejectOK  bool
	rejectErr error
}

func (f *fakeHandoverStore) Create(ctx context.Context, req *models.HandoverRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	req.ID = 42
	f.created = req
	return nil
}

func (f *fakeHandoverStore) Get(ctx context.Context, tenantID, id int) (*models.HandoverRequest, error) {
	return f.getResult, f.getErr
}

func (f *fakeHandoverStore) ListPending(ctx context.Context, tenantID int) ([]models.HandoverRequest, error) {
	return nil, nil
}

func (f *fakeHandoverStore) ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.HandoverRequest, error) {
	return nil, nil
}

func (f *fakeHandoverStore) MarkRejected(ctx context.Context, tenantID, id, adminID int, reason string) (bool, error) {
	return f.rejectOK, f.rejectErr
}

type fakeCylinderLocker struct {
	lockResult []string
	lockErr    error
	lockCalls  int

	unlockErr     error
	unlockedWith  []string
	unlockCalls   int
	unlockedCount int64
}

func (f *fakeCylinderLocker) LockForHandover(ctx context.Context, tenantID, driverID int, serials []string) ([]string, error) {
	f.lockCalls++
	return f.lockResult, f.lockErr
}

func (f *fakeCylinderLocker) UnlockSerials(ctx context.Context, tenantID, driverID int, serials []string) (int64, error) {
	f.unlockCalls++
	f.unlockedWith = serials
	if f.unlockErr != nil {
		return 0, f.unlockErr
	}
	f.unlockedCount = int64(len(serials))
	return f.unlockedCount, nil
}

type fakeWalletReader struct {
	wallet *models.EmployeeWallet
	err    error
}

func (f *fakeWalletReader) Get(ctx context.Context, tenantID, userID int) (*models.EmployeeWallet, error) {
	return f.wallet, f.err
}

type fakeCompensationWriter struct {
	enqueued []struct {
		kind    string
		payload []byte
	}
	err error
}

func (f *fakeCompensationWriter) Enqueue(ctx context.Context, tenantID int, kind string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, struct {
		kind    string
		payload []byte
	}{kind, payload})
	return nil
}

type fakeHandoverApprover struct {
	result *models.ProcedureResult
	err    error
}

func (f *fakeHandoverApprover) ApproveDriverHandover(ctx context.Context, tenantID, requestID, adminID int) (*models.ProcedureResult, error) {
	return f.result, f.err
}

func newHandoverService(h *fakeHandoverStore, c *fakeCylinderLocker, w *fakeWalletReader, comp *fakeCompensationWriter, p *fakeHandoverApprover) *HandoverService {
	if h == nil {
		h = &fakeHandoverStore{}
	}
	if c == nil {
		c = &fakeCylinderLocker{}
	}
	if w == nil {
		w = &fakeWalletReader{wallet: &models.EmployeeWallet{Balance: 0}}
	}
	if comp == nil {
		comp = &fakeCompensationWriter{}
	}
	if p == nil {
		p = &fakeHandoverApprover{}
	}
	return NewHandoverService(h, c, w, comp, p)
}

func TestSubmit_RejectsCashAboveWalletBalance(t *testing.T) {
	wallets := &fakeWalletReader{wallet: &models.EmployeeWallet{UserID: 7, Balance: 500}}
	cylinders := &fakeCylinderLocker{}
	svc := newHandoverService(nil, cylinders, wallets, nil, nil)

	_, err := svc.Submit(context.Background(), 1, 7, &models.SubmitHandoverRequest{
		ReceiverID: 2,
		CashAmount: 500.01,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "exceeds wallet balance")
	// ceiling check happens before any cylinder touch
	assert.Equal(t, 0, cylinders.lockCalls)
}

func TestSubmit_CashAtWalletBalancePasses(t *testing.T) {
	store := &fakeHandoverStore{}
	wallets := &fakeWalletReader{wallet: &models.EmployeeWallet{UserID: 7, Balance: 500}}
	svc := newHandoverService(store, nil, wallets, nil, nil)

	handover, err := svc.Submit(context.Background(), 1, 7, &models.SubmitHandoverRequest{
		ReceiverID: 2,
		CashAmount: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, handover.ID)
	assert.NotEmpty(t, handover.Reference)
	assert.Equal(t, 7, handover.DriverID)
}

func TestSubmit_RejectsEmptyRequest(t *testing.T) {
	svc := newHandoverService(nil, nil, nil, nil, nil)

	_, err := svc.Submit(context.Background(), 1, 7, &models.SubmitHandoverRequest{ReceiverID: 2})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), 1, 7, &models.SubmitHandoverRequest{
		ReceiverID: 2,
		CashAmount: -10,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmit_PartialLockReleasesAndFails(t *testing.T) {
	store := &fakeHandoverStore{}
	cylinders := &fakeCylinderLocker{lockResult: []string{"CYL-001", "CYL-002"}}
	svc := newHandoverService(store, cylinders, nil, nil, nil)

	_, err := svc.Submit(context.Background(), 1, 7, &models.SubmitHandoverRequest{
		ReceiverID:      2,
		CylinderSerials: []string{"CYL-001", "CYL-002", "CYL-999"},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "1 of 3")

	// only the serials that actually got locked are released
	require.Equal(t, 1, cylinders.unlockCalls)
	assert.Equal(t, []string{"CYL-001", "CYL-002"}, cylinders.unlockedWith)
	assert.Nil(t, store.created)
}

func TestSubmit_InsertFailureUnlocksCylinders(t *testing.T) {
	store := &fakeHandoverStore{createErr: errors.New("insert failed")}
	cylinders := &fakeCylinderLocker{lockResult: []string{"CYL-001", "CYL-002"}}
	svc := newHandoverService(store, cylinders, nil, nil, nil)

	_, err := svc.Submit(context.Background(), 1, 7, &models.SubmitHandoverRequest{
		ReceiverID:      2,
		CylinderSerials: []string{"CYL-001", "CYL-002"},
	})
	require.Error(t, err)
	assert.Equal(t, 1, cylinders.unlockCalls)
}

func TestSubmit_UnlockFailureFallsBackToCompensation(t *testing.T) {
	store := &fakeHandoverStore{createErr: errors.New("insert failed")}
	cylinders := &fakeCylinderLocker{
		lockResult: []string{"CYL-001", "CYL-002"},
		unlockErr:  errors.New("db gone away"),
	}
	comp := &fakeCompensationWriter{}
	svc := newHandoverService(store, cylinders, nil, comp, nil)

	_, err := svc.Submit(context.Background(), 1, 7, &models.SubmitHandoverRequest{
		ReceiverID:      2,
		CylinderSerials: []string{"CYL-001", "CYL-002"},
	})
	require.Error(t, err)

	require.Len(t, comp.enqueued, 1)
	assert.Equal(t, "unlock_cylinders", comp.enqueued[0].kind)

	var payload models.UnlockCylindersPayload
	require.NoError(t, json.Unmarshal(comp.enqueued[0].payload, &payload))
	assert.Equal(t, 7, payload.DriverID)
	assert.Equal(t, []string{"CYL-001", "CYL-002"}, payload.Serials)
}

func TestReject_ReleasesLockedCylinders(t *testing.T) {
	store := &fakeHandoverStore{
		getResult: &models.HandoverRequest{
			ID: 9, TenantID: 1, DriverID: 7,
			CylinderSerials: []string{"CYL-010"},
			Status:          models.HandoverStatusPending,
		},
		rejectOK: true,
	}
	cylinders := &fakeCylinderLocker{}
	svc := newHandoverService(store, cylinders, nil, nil, nil)

	err := svc.Reject(context.Background(), 1, 9, 3, "counted short")
	require.NoError(t, err)
	assert.Equal(t, 1, cylinders.unlockCalls)
	assert.Equal(t, []string{"CYL-010"}, cylinders.unlockedWith)
}

func TestReject_AlreadyResolved(t *testing.T) {
	store := &fakeHandoverStore{
		getResult: &models.HandoverRequest{ID: 9, TenantID: 1, DriverID: 7},
		rejectOK:  false,
	}
	cylinders := &fakeCylinderLocker{}
	svc := newHandoverService(store, cylinders, nil, nil, nil)

	err := svc.Reject(context.Background(), 1, 9, 3, "late")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, cylinders.unlockCalls)
}

func TestReject_NotFound(t *testing.T) {
	svc := newHandoverService(&fakeHandoverStore{}, nil, nil, nil, nil)

	err := svc.Reject(context.Background(), 1, 404, 3, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApprove_PassesThroughDomainRejection(t *testing.T) {
	procedures := &fakeHandoverApprover{
		result: &models.ProcedureResult{Success: false, Message: "Driver wallet balance is below the handover amount"},
	}
	svc := newHandoverService(nil, nil, nil, nil, procedures)

	result, err := svc.Approve(context.Background(), 1, 9, 3)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "wallet balance")
}
