package models

import "time"

// EmployeeWallet is the cash liability a driver/agent currently carries.
// Credited when cash is collected on delivery, debited when an approved
// handover moves the cash to the admin.
type EmployeeWallet struct {
	UserID    int       `json:"user_id"`
	TenantID  int       `json:"tenant_id"`
	Balance   float64   `json:"balance"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}
