package models

import "time"

// HandoverStatus tracks a driver's cash/cylinder handover request
type HandoverStatus string

const (
	HandoverStatusPending   HandoverStatus = "pending"
	HandoverStatusCompleted HandoverStatus = "completed"
	HandoverStatusRejected  HandoverStatus = "rejected"
)

// HandoverRequest is a driver's claim that cash and/or empty cylinders are
// ready for admin pickup. Created pending; only an admin approve/reject moves
// it to a terminal state.
type HandoverRequest struct {
	ID              int            `json:"id"`
	TenantID        int            `json:"tenant_id"`
	Reference       string         `json:"reference"` // uuid, for receipts and idempotent lookups
	DriverID        int            `json:"driver_id"`
	ReceiverID      int            `json:"receiver_id"`
	CashAmount      float64        `json:"cash_amount"`
	CylinderSerials []string       `json:"cylinder_serials"`
	Status          HandoverStatus `json:"status"`
	Notes           string         `json:"notes"`
	CreatedAt       time.Time      `json:"created_at"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	ResolvedBy      *int           `json:"resolved_by,omitempty"`
}

// SubmitHandoverRequest is the driver-side payload
type SubmitHandoverRequest struct {
	ReceiverID      int      `json:"receiver_id"`
	CashAmount      float64  `json:"cash_amount"`
	CylinderSerials []string `json:"cylinder_serials"`
	Notes           string   `json:"notes"`
}

// CompensationStatus tracks a durable compensation (outbox) row
type CompensationStatus string

const (
	CompensationStatusPending CompensationStatus = "pending"
	CompensationStatusDone    CompensationStatus = "done"
)

// Compensation is a durable record of an undo that must eventually run,
// written before the undo is attempted so a failed revert is retried by the
// background drain instead of being lost to a log line.
type Compensation struct {
	ID         int                `json:"id"`
	TenantID   int                `json:"tenant_id"`
	Kind       string             `json:"kind"` // e.g. "unlock_cylinders"
	Payload    []byte             `json:"payload"`
	Status     CompensationStatus `json:"status"`
	Attempts   int                `json:"attempts"`
	LastError  string             `json:"last_error"`
	CreatedAt  time.Time          `json:"created_at"`
	ResolvedAt *time.Time         `json:"resolved_at,omitempty"`
}

// UnlockCylindersPayload is the payload for "unlock_cylinders" compensations
type UnlockCylindersPayload struct {
	DriverID int      `json:"driver_id"`
	Serials  []string `json:"serials"`
}
