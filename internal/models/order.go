package models

import "time"

// OrderStatus follows an order from booking to the doorstep
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAssigned       OrderStatus = "assigned"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type Order struct {
	ID          int         `json:"id"`
	TenantID    int         `json:"tenant_id"`
	CustomerID  int         `json:"customer_id"`
	DriverID    *int        `json:"driver_id,omitempty"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	ProofURL    string      `json:"proof_url,omitempty"`
	Notes       string      `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID         int     `json:"id"`
	OrderID    int     `json:"order_id"`
	CapacityKg float64 `json:"capacity_kg"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// CreateOrderRequest books a refill order for a customer
type CreateOrderRequest struct {
	CustomerID int               `json:"customer_id"`
	Notes      string            `json:"notes"`
	Items      []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	CapacityKg float64 `json:"capacity_kg"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

// CompleteDeliveryRequest closes out a driver's in-progress order. The
// returned serials name exactly which empties the customer handed back;
// custody moves per serial, never by count.
type CompleteDeliveryRequest struct {
	OrderID          int      `json:"order_id"`
	ReceivedAmount   float64  `json:"received_amount"`
	PaymentMethod    string   `json:"payment_method"` // 'cash', 'online', 'credit'
	ReturnedSerials  []string `json:"returned_serials"`
	Notes            string   `json:"notes"`
	ProofImage       []byte   `json:"-"` // multipart upload, not JSON
	ProofContentType string   `json:"-"`
}

// BulkAssignRequest assigns a batch of pending orders to one driver
type BulkAssignRequest struct {
	OrderIDs []int `json:"order_ids"`
	DriverID int   `json:"driver_id"`
}
