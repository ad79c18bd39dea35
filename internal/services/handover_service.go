package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"lpg-backend/internal/cache"
	"lpg-backend/internal/models"

	"github.com/google/uuid"
)

type handoverStore interface {
	Create(ctx context.Context, req *models.HandoverRequest) error
	Get(ctx context.Context, tenantID, id int) (*models.HandoverRequest, error)
	ListPending(ctx context.Context, tenantID int) ([]models.HandoverRequest, error)
	ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.HandoverRequest, error)
	MarkRejected(ctx context.Context, tenantID, id, adminID int, reason string) (bool, error)
}

type cylinderLocker interface {
	LockForHandover(ctx context.Context, tenantID, driverID int, serials []string) ([]string, error)
	UnlockSerials(ctx context.Context, tenantID, driverID int, serials []string) (int64, error)
}

type walletReader interface {
	Get(ctx context.Context, tenantID, userID int) (*models.EmployeeWallet, error)
}

type compensationWriter interface {
	Enqueue(ctx context.Context, tenantID int, kind string, payload []byte) error
}

type handoverApprover interface {
	ApproveDriverHandover(ctx context.Context, tenantID, requestID, adminID int) (*models.ProcedureResult, error)
}

// HandoverService runs the driver-to-admin cash and empty-cylinder handover
// workflow. Drivers submit, admins approve or reject; nothing settles without
// the admin step.
type HandoverService struct {
	handovers     handoverStore
	cylinders     cylinderLocker
	wallets       walletReader
	compensations compensationWriter
	procedures    handoverApprover
}

func NewHandoverService(h handoverStore, c cylinderLocker, w walletReader, comp compensationWriter, p handoverApprover) *HandoverService {
	return &HandoverService{handovers: h, cylinders: c, wallets: w, compensations: comp, procedures: p}
}

// Submit validates and records a driver's handover request.
//
// The cash ceiling is checked before anything is touched: a driver cannot
// hand over more than their wallet holds. Cylinder locking is all-or-nothing:
// if any named serial is not an empty cylinder in this driver's custody, the
// ones already locked are released and the whole submission fails. A failure
// after locking falls back to a durable compensation so the cylinders are
// never left stuck in handover_pending.
func (s *HandoverService) Submit(ctx context.Context, tenantID, driverID int, req *models.SubmitHandoverRequest) (*models.HandoverRequest, error) {
	if req.CashAmount < 0 {
		return nil, fmt.Errorf("%w: cash amount cannot be negative", ErrInvalidInput)
	}
	if req.CashAmount == 0 && len(req.CylinderSerials) == 0 {
		return nil, fmt.Errorf("%w: nothing to hand over", ErrInvalidInput)
	}

	if req.CashAmount > 0 {
		wallet, err := s.wallets.Get(ctx, tenantID, driverID)
		if err != nil {
			return nil, err
		}
		if req.CashAmount > wallet.Balance {
			return nil, fmt.Errorf("%w: cash amount %.2f exceeds wallet balance %.2f",
				ErrInvalidInput, req.CashAmount, wallet.Balance)
		}
	}

	if len(req.CylinderSerials) > 0 {
		locked, err := s.cylinders.LockForHandover(ctx, tenantID, driverID, req.CylinderSerials)
		if err != nil {
			return nil, err
		}
		if len(locked) != len(req.CylinderSerials) {
			s.unlockOrEnqueue(ctx, tenantID, driverID, locked)
			return nil, fmt.Errorf("%w: %d of %d cylinders are not empty stock in your custody",
				ErrInvalidInput, len(req.CylinderSerials)-len(locked), len(req.CylinderSerials))
		}
	}

	handover := &models.HandoverRequest{
		TenantID:        tenantID,
		Reference:       uuid.NewString(),
		DriverID:        driverID,
		ReceiverID:      req.ReceiverID,
		CashAmount:      req.CashAmount,
		CylinderSerials: req.CylinderSerials,
		Notes:           req.Notes,
	}
	if err := s.handovers.Create(ctx, handover); err != nil {
		if len(req.CylinderSerials) > 0 {
			s.unlockOrEnqueue(ctx, tenantID, driverID, req.CylinderSerials)
		}
		return nil, err
	}

	cache.InvalidateHandoverCaches(ctx, strconv.Itoa(tenantID))
	cache.InvalidateInventoryCaches(ctx, strconv.Itoa(tenantID))
	return handover, nil
}

// unlockOrEnqueue reverts a partial lock. If the immediate revert fails, the
// revert is written to the compensation outbox so the drain job retries it;
// only a failure of both paths is left to the log.
func (s *HandoverService) unlockOrEnqueue(ctx context.Context, tenantID, driverID int, serials []string) {
	if len(serials) == 0 {
		return
	}
	if _, err := s.cylinders.UnlockSerials(ctx, tenantID, driverID, serials); err == nil {
		return
	}
	payload, _ := json.Marshal(models.UnlockCylindersPayload{DriverID: driverID, Serials: serials})
	if err := s.compensations.Enqueue(ctx, tenantID, "unlock_cylinders", payload); err != nil {
		log.Printf("[Handover] CRITICAL: failed to unlock cylinders and failed to enqueue compensation (tenant=%d driver=%d serials=%v): %v",
			tenantID, driverID, serials, err)
	}
}

// Approve settles a pending handover through the stored procedure: wallet
// debit, cylinder transfer to warehouse and request closure are one database
// transaction. A false result is a domain rejection (already resolved, stale
// cylinders), not an error.
func (s *HandoverService) Approve(ctx context.Context, tenantID, requestID, adminID int) (*models.ProcedureResult, error) {
	result, err := s.procedures.ApproveDriverHandover(ctx, tenantID, requestID, adminID)
	if err != nil {
		return nil, err
	}
	if result.Success {
		tenant := strconv.Itoa(tenantID)
		cache.InvalidateHandoverCaches(ctx, tenant)
		cache.InvalidateInventoryCaches(ctx, tenant)
	}
	return result, nil
}

// Reject closes a pending handover and releases its cylinder locks. The
// status update is conditional, so a request already resolved by another
// admin comes back as a conflict instead of being overwritten.
func (s *HandoverService) Reject(ctx context.Context, tenantID, requestID, adminID int, reason string) error {
	handover, err := s.handovers.Get(ctx, tenantID, requestID)
	if err != nil {
		return err
	}
	if handover == nil {
		return fmt.Errorf("%w: handover request %d", ErrNotFound, requestID)
	}

	ok, err := s.handovers.MarkRejected(ctx, tenantID, requestID, adminID, reason)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: handover request already resolved", ErrInvalidInput)
	}

	s.unlockOrEnqueue(ctx, tenantID, handover.DriverID, handover.CylinderSerials)

	tenant := strconv.Itoa(tenantID)
	cache.InvalidateHandoverCaches(ctx, tenant)
	cache.InvalidateInventoryCaches(ctx, tenant)
	return nil
}

// ListPending returns a tenant's approval queue
func (s *HandoverService) ListPending(ctx context.Context, tenantID int) ([]models.HandoverRequest, error) {
	return s.handovers.ListPending(ctx, tenantID)
}

// ListByDriver returns one driver's handover history
func (s *HandoverService) ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.HandoverRequest, error) {
	return s.handovers.ListByDriver(ctx, tenantID, driverID)
}
