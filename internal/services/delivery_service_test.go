package services

import (
	"context"
	"testing"

	"lpg-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	order       *models.Order
	driverOrder *models.Order
	required    int
	createErr   error
	proofURL    string
}

func (f *fakeOrderStore) Create(ctx context.Context, tenantID int, req *models.CreateOrderRequest) (*models.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Order{ID: 1, TenantID: tenantID, CustomerID: req.CustomerID, Status: models.OrderStatusPending}, nil
}

func (f *fakeOrderStore) Get(ctx context.Context, tenantID, id int) (*models.Order, error) {
	return f.order, nil
}

func (f *fakeOrderStore) GetForDriver(ctx context.Context, tenantID, orderID, driverID int) (*models.Order, error) {
	return f.driverOrder, nil
}

func (f *fakeOrderStore) RequiredQuantity(ctx context.Context, orderID int) (int, error) {
	return f.required, nil
}

func (f *fakeOrderStore) SetProofURL(ctx context.Context, tenantID, orderID int, url string) error {
	f.proofURL = url
	return nil
}

func (f *fakeOrderStore) List(ctx context.Context, tenantID int, status models.OrderStatus, limit, offset int) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderStore) ListByDriver(ctx context.Context, tenantID, driverID int) ([]models.Order, error) {
	return nil, nil
}

type fakeDriverStock struct {
	fullCount int
}

func (f *fakeDriverStock) CountFullByDriver(ctx context.Context, tenantID, driverID int) (int, error) {
	return f.fullCount, nil
}

type fakeOrderProcedures struct {
	completeResult  *models.ProcedureResult
	completeCalls   int
	returnedSerials []string
	notes           string
	cancelResult    *models.ProcedureResult
	assignResult    *models.ProcedureResult
}

func (f *fakeOrderProcedures) CompleteOrderTransaction(ctx context.Context, tenantID, orderID, driverID int, receivedAmount float64, paymentMethod string, returnedSerials []string, notes string) (*models.ProcedureResult, error) {
	f.completeCalls++
	f.returnedSerials = returnedSerials
	f.notes = notes
	return f.completeResult, nil
}

func (f *fakeOrderProcedures) CancelOrderTransaction(ctx context.Context, tenantID, orderID, userID int, reason string) (*models.ProcedureResult, error) {
	return f.cancelResult, nil
}

func (f *fakeOrderProcedures) BulkAssignOrders(ctx context.Context, tenantID, driverID int, orderIDs []int) (*models.ProcedureResult, error) {
	return f.assignResult, nil
}

func assignedOrder() *models.Order {
	return &models.Order{ID: 10, TenantID: 1, CustomerID: 5, Status: models.OrderStatusAssigned}
}

func TestComplete_OrderNotAssignedToDriver(t *testing.T) {
	orders := &fakeOrderStore{driverOrder: nil}
	svc := NewDeliveryService(orders, &fakeDriverStock{}, &fakeOrderProcedures{}, nil)

	_, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{OrderID: 10})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "not assigned to you")
}

func TestComplete_EmptyVehicleMessage(t *testing.T) {
	orders := &fakeOrderStore{driverOrder: assignedOrder(), required: 2}
	stock := &fakeDriverStock{fullCount: 0}
	procedures := &fakeOrderProcedures{}
	svc := NewDeliveryService(orders, stock, procedures, nil)

	_, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{OrderID: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "no full cylinders on your vehicle")
	assert.Equal(t, 0, procedures.completeCalls)
}

func TestComplete_ShortLoadMessage(t *testing.T) {
	orders := &fakeOrderStore{driverOrder: assignedOrder(), required: 3}
	stock := &fakeDriverStock{fullCount: 1}
	procedures := &fakeOrderProcedures{}
	svc := NewDeliveryService(orders, stock, procedures, nil)

	_, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{OrderID: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
	// a short load names the numbers instead of claiming an empty vehicle
	assert.Contains(t, err.Error(), "needs 3 cylinders but only 1")
	assert.Equal(t, 0, procedures.completeCalls)
}

func TestComplete_SufficientStockRunsProcedure(t *testing.T) {
	orders := &fakeOrderStore{driverOrder: assignedOrder(), required: 2}
	stock := &fakeDriverStock{fullCount: 2}
	procedures := &fakeOrderProcedures{
		completeResult: &models.ProcedureResult{Success: true, Message: "Delivery completed"},
	}
	svc := NewDeliveryService(orders, stock, procedures, nil)

	result, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{
		OrderID:        10,
		ReceivedAmount: 900,
		PaymentMethod:  "cash",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, procedures.completeCalls)
}

func TestComplete_ReturnedSerialsReachSettlement(t *testing.T) {
	orders := &fakeOrderStore{driverOrder: assignedOrder(), required: 1}
	stock := &fakeDriverStock{fullCount: 1}
	procedures := &fakeOrderProcedures{
		completeResult: &models.ProcedureResult{Success: true, Message: "Delivery completed"},
	}
	svc := NewDeliveryService(orders, stock, procedures, nil)

	_, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{
		OrderID:         10,
		ReceivedAmount:  900,
		PaymentMethod:   "cash",
		ReturnedSerials: []string{"CYL-777", "CYL-778"},
		Notes:           "gate was locked, left with guard",
	})
	require.NoError(t, err)

	// custody moves by the named serials, never by a count
	assert.Equal(t, []string{"CYL-777", "CYL-778"}, procedures.returnedSerials)
	assert.Equal(t, "gate was locked, left with guard", procedures.notes)
}

func TestComplete_DeliveredOrderRefused(t *testing.T) {
	order := assignedOrder()
	order.Status = models.OrderStatusDelivered
	orders := &fakeOrderStore{driverOrder: order}
	svc := NewDeliveryService(orders, &fakeDriverStock{}, &fakeOrderProcedures{}, nil)

	_, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{OrderID: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComplete_NegativeReceivedAmount(t *testing.T) {
	orders := &fakeOrderStore{driverOrder: assignedOrder()}
	svc := NewDeliveryService(orders, &fakeDriverStock{}, &fakeOrderProcedures{}, nil)

	_, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{
		OrderID:        10,
		ReceivedAmount: -1,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComplete_DomainRejectionIsNotAnError(t *testing.T) {
	orders := &fakeOrderStore{driverOrder: assignedOrder(), required: 1}
	stock := &fakeDriverStock{fullCount: 1}
	procedures := &fakeOrderProcedures{
		completeResult: &models.ProcedureResult{Success: false, Message: "only 0 of 1 full cylinders on vehicle"},
	}
	svc := NewDeliveryService(orders, stock, procedures, nil)

	result, err := svc.Complete(context.Background(), 1, 7, &models.CompleteDeliveryRequest{OrderID: 10})
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestCreateOrder_ValidatesItems(t *testing.T) {
	svc := NewDeliveryService(&fakeOrderStore{}, &fakeDriverStock{}, &fakeOrderProcedures{}, nil)

	_, err := svc.CreateOrder(context.Background(), 1, &models.CreateOrderRequest{CustomerID: 5})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateOrder(context.Background(), 1, &models.CreateOrderRequest{
		CustomerID: 5,
		Items:      []models.CreateOrderItem{{CapacityKg: 14.2, Quantity: 0, UnitPrice: 900}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	order, err := svc.CreateOrder(context.Background(), 1, &models.CreateOrderRequest{
		CustomerID: 5,
		Items:      []models.CreateOrderItem{{CapacityKg: 14.2, Quantity: 2, UnitPrice: 900}},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, order.CustomerID)
}

func TestBulkAssign_EmptyBatchRefused(t *testing.T) {
	svc := NewDeliveryService(&fakeOrderStore{}, &fakeDriverStock{}, &fakeOrderProcedures{}, nil)

	_, err := svc.BulkAssign(context.Background(), 1, &models.BulkAssignRequest{DriverID: 7})
	require.ErrorIs(t, err, ErrInvalidInput)
}
