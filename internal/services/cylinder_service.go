package services

import (
	"context"
	"fmt"
	"strconv"

	"lpg-backend/internal/cache"
	"lpg-backend/internal/models"
	"lpg-backend/internal/repositories"
)

// CylinderService tracks physical cylinder stock: registration, dispatch to
// drivers, status changes and warehouse returns.
type CylinderService struct {
	cylinders *repositories.CylinderRepository
}

func NewCylinderService(cylinders *repositories.CylinderRepository) *CylinderService {
	return &CylinderService{cylinders: cylinders}
}

// RegisterBatch adds new serials as full warehouse stock
func (s *CylinderService) RegisterBatch(ctx context.Context, tenantID int, req *models.RegisterCylindersRequest) (int, error) {
	if len(req.SerialNumbers) == 0 {
		return 0, fmt.Errorf("%w: no serial numbers given", ErrInvalidInput)
	}
	if req.CapacityKg <= 0 {
		return 0, fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	}
	created, err := s.cylinders.RegisterBatch(ctx, tenantID, req)
	if err != nil {
		return created, err
	}
	cache.InvalidateInventoryCaches(ctx, strconv.Itoa(tenantID))
	return created, nil
}

// Dispatch loads full warehouse cylinders onto a driver's vehicle. The move
// is conditional per row; if any serial was not full warehouse stock the
// caller learns how many actually moved.
func (s *CylinderService) Dispatch(ctx context.Context, tenantID int, req *models.DispatchRequest) (int64, error) {
	if len(req.SerialNumbers) == 0 {
		return 0, fmt.Errorf("%w: no serial numbers given", ErrInvalidInput)
	}
	moved, err := s.cylinders.DispatchToDriver(ctx, tenantID, req.DriverID, req.SerialNumbers)
	if err != nil {
		return 0, err
	}
	cache.InvalidateInventoryCaches(ctx, strconv.Itoa(tenantID))
	if moved != int64(len(req.SerialNumbers)) {
		return moved, fmt.Errorf("%w: only %d of %d cylinders were full warehouse stock",
			ErrInvalidInput, moved, len(req.SerialNumbers))
	}
	return moved, nil
}

// Get returns one cylinder by serial
func (s *CylinderService) Get(ctx context.Context, tenantID int, serial string) (*models.Cylinder, error) {
	cylinder, err := s.cylinders.Get(ctx, tenantID, serial)
	if err != nil {
		return nil, err
	}
	if cylinder == nil {
		return nil, fmt.Errorf("%w: cylinder %s", ErrNotFound, serial)
	}
	return cylinder, nil
}

// ListByHolder returns a holder's cylinders, optionally filtered by status
func (s *CylinderService) ListByHolder(ctx context.Context, tenantID int, holder models.Holder, status models.CylinderStatus) ([]models.Cylinder, error) {
	if err := holder.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.cylinders.ListByHolder(ctx, tenantID, holder, status)
}

// ListByStatus returns all cylinders in a status
func (s *CylinderService) ListByStatus(ctx context.Context, tenantID int, status models.CylinderStatus) ([]models.Cylinder, error) {
	return s.cylinders.ListByStatus(ctx, tenantID, status)
}

// SetStatus marks a cylinder maintenance, missing or back to empty
func (s *CylinderService) SetStatus(ctx context.Context, tenantID int, serial string, status models.CylinderStatus) error {
	switch status {
	case models.CylinderStatusEmpty, models.CylinderStatusMaintenance, models.CylinderStatusMissing:
	default:
		return fmt.Errorf("%w: cannot manually set status %s", ErrInvalidInput, status)
	}
	if err := s.cylinders.SetStatus(ctx, tenantID, serial, status); err != nil {
		return err
	}
	cache.InvalidateInventoryCaches(ctx, strconv.Itoa(tenantID))
	return nil
}

// ReturnToWarehouse books cylinders back into warehouse stock
func (s *CylinderService) ReturnToWarehouse(ctx context.Context, tenantID int, serials []string, status models.CylinderStatus) (int64, error) {
	if len(serials) == 0 {
		return 0, fmt.Errorf("%w: no serial numbers given", ErrInvalidInput)
	}
	if status != models.CylinderStatusFull && status != models.CylinderStatusEmpty {
		return 0, fmt.Errorf("%w: warehouse returns must be full or empty", ErrInvalidInput)
	}
	returned, err := s.cylinders.ReturnToWarehouse(ctx, tenantID, serials, status)
	if err != nil {
		return 0, err
	}
	cache.InvalidateInventoryCaches(ctx, strconv.Itoa(tenantID))
	return returned, nil
}
