package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"lpg-backend/internal/cache"
	"lpg-backend/internal/models"
	"lpg-backend/internal/storage"

	"github.com/google/uuid"
)

type orderStore interface {
	Create(ctx context.Context, tenantID int, req *models.CreateOrderRequest) (*models.Order, error)
	Get(ctx context.Context, tenantID, id int) (*models.Order, error)
	GetForDriver(ctx context.Context, tenantID, orderID, driverID int) (*models.Order, error)
	RequiredQuantity(ctx context.Context, orderID int) (int, error)
	SetProofURL(ctx context.Context, tenantID, orderID int, url string) error
	List(ctx context.Context, tenantID int, status models.OrderStatus, limit, offset int) ([]models.Order, error)
	ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.Order, error)
}

type driverStock interface {
	CountFullByDriver(ctx context.Context, tenantID, driverID int) (int, error)
}

type orderProcedures interface {
	CompleteOrderTransaction(ctx context.Context, tenantID, orderID, driverID int, receivedAmount float64, paymentMethod string, returnedSerials []string, notes string) (*models.ProcedureResult, error)
	CancelOrderTransaction(ctx context.Context, tenantID, orderID, userID int, reason string) (*models.ProcedureResult, error)
	BulkAssignOrders(ctx context.Context, tenantID, driverID int, orderIDs []int) (*models.ProcedureResult, error)
}

// DeliveryService runs the order lifecycle from booking through the driver's
// doorstep completion.
type DeliveryService struct {
	orders     orderStore
	cylinders  driverStock
	procedures orderProcedures
	uploader   *storage.Uploader
}

func NewDeliveryService(orders orderStore, cylinders driverStock, procedures orderProcedures, uploader *storage.Uploader) *DeliveryService {
	return &DeliveryService{orders: orders, cylinders: cylinders, procedures: procedures, uploader: uploader}
}

// CreateOrder books a refill order
func (s *DeliveryService) CreateOrder(ctx context.Context, tenantID int, req *models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrInvalidInput)
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: bad quantity or price", ErrInvalidInput)
		}
	}
	order, err := s.orders.Create(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	cache.InvalidateOrderCaches(ctx, strconv.Itoa(tenantID))
	return order, nil
}

// Complete closes out a delivery on the driver's confirmation.
//
// Stock is verified against the driver's vehicle before anything moves, with
// distinct failures for an empty vehicle and a short load. The proof photo
// upload is best effort: a storage outage never blocks the delivery itself.
// The actual settlement runs as one stored-procedure transaction.
func (s *DeliveryService) Complete(ctx context.Context, tenantID, driverID int, req *models.CompleteDeliveryRequest) (*models.ProcedureResult, error) {
	order, err := s.orders.GetForDriver(ctx, tenantID, req.OrderID, driverID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d is not assigned to you", ErrNotFound, req.OrderID)
	}
	if order.Status != models.OrderStatusAssigned && order.Status != models.OrderStatusOutForDelivery {
		return nil, fmt.Errorf("%w: order is %s, not in progress", ErrInvalidInput, order.Status)
	}
	if req.ReceivedAmount < 0 {
		return nil, fmt.Errorf("%w: received amount cannot be negative", ErrInvalidInput)
	}

	required, err := s.orders.RequiredQuantity(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	stock, err := s.cylinders.CountFullByDriver(ctx, tenantID, driverID)
	if err != nil {
		return nil, err
	}
	if stock == 0 {
		return nil, fmt.Errorf("%w: no full cylinders on your vehicle", ErrInvalidInput)
	}
	if stock < required {
		return nil, fmt.Errorf("%w: order needs %d cylinders but only %d on your vehicle",
			ErrInvalidInput, required, stock)
	}

	proofURL := ""
	if s.uploader != nil && len(req.ProofImage) > 0 {
		key := fmt.Sprintf("proofs/%d/order-%d-%s", tenantID, req.OrderID, uuid.NewString())
		url, err := s.uploader.Upload(ctx, key, req.ProofContentType, req.ProofImage)
		if err != nil {
			log.Printf("[Delivery] Proof upload failed for order %d, continuing without: %v", req.OrderID, err)
		} else {
			proofURL = url
		}
	}

	result, err := s.procedures.CompleteOrderTransaction(ctx, tenantID, req.OrderID, driverID,
		req.ReceivedAmount, req.PaymentMethod, req.ReturnedSerials, req.Notes)
	if err != nil {
		return nil, err
	}

	if result.Success {
		if proofURL != "" {
			if err := s.orders.SetProofURL(ctx, tenantID, req.OrderID, proofURL); err != nil {
				log.Printf("[Delivery] Failed to attach proof url to order %d: %v", req.OrderID, err)
			}
		}
		tenant := strconv.Itoa(tenantID)
		cache.InvalidateOrderCaches(ctx, tenant)
		cache.InvalidateCustomerCaches(ctx, tenant)
		cache.InvalidateInventoryCaches(ctx, tenant)
		cache.InvalidateHandoverCaches(ctx, tenant)
	}
	return result, nil
}

// Cancel voids an order and returns any dispatched stock to the warehouse
func (s *DeliveryService) Cancel(ctx context.Context, tenantID, userID, orderID int, reason string) (*models.ProcedureResult, error) {
	result, err := s.procedures.CancelOrderTransaction(ctx, tenantID, orderID, userID, reason)
	if err != nil {
		return nil, err
	}
	if result.Success {
		tenant := strconv.Itoa(tenantID)
		cache.InvalidateOrderCaches(ctx, tenant)
		cache.InvalidateInventoryCaches(ctx, tenant)
	}
	return result, nil
}

// BulkAssign hands a batch of pending orders to one driver in a single
// transaction; the procedure rejects the whole batch if any order is not
// assignable.
func (s *DeliveryService) BulkAssign(ctx context.Context, tenantID int, req *models.BulkAssignRequest) (*models.ProcedureResult, error) {
	if len(req.OrderIDs) == 0 {
		return nil, fmt.Errorf("%w: no orders given", ErrInvalidInput)
	}
	result, err := s.procedures.BulkAssignOrders(ctx, tenantID, req.DriverID, req.OrderIDs)
	if err != nil {
		return nil, err
	}
	if result.Success {
		cache.InvalidateOrderCaches(ctx, strconv.Itoa(tenantID))
	}
	return result, nil
}

// Get returns one order
func (s *DeliveryService) Get(ctx context.Context, tenantID, orderID int) (*models.Order, error) {
	order, err := s.orders.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return order, nil
}

// List returns a tenant's orders
func (s *DeliveryService) List(ctx context.Context, tenantID int, status models.OrderStatus, limit, offset int) ([]models.Order, error) {
	return s.orders.List(ctx, tenantID, status, limit, offset)
}

// ListByDriver returns a driver's open orders
func (s *DeliveryService) ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.Order, error) {
	return s.orders.ListByDriver(ctx, tenantID, driverID)
}
