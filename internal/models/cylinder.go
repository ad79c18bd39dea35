package models

import (
	"errors"
	"time"
)

// CylinderStatus represents where a cylinder is in its fill/custody lifecycle
type CylinderStatus string

const (
	CylinderStatusFull            CylinderStatus = "full"
	CylinderStatusEmpty           CylinderStatus = "empty"
	CylinderStatusMaintenance     CylinderStatus = "maintenance"
	CylinderStatusMissing         CylinderStatus = "missing"
	CylinderStatusHandoverPending CylinderStatus = "handover_pending"
	CylinderStatusAtCustomer      CylinderStatus = "at_customer"
)

// HolderType discriminates who currently holds a cylinder
type HolderType string

const (
	HolderTypeWarehouse HolderType = "warehouse"
	HolderTypeDriver    HolderType = "driver"
	HolderTypeCustomer  HolderType = "customer"
)

// Holder is the tagged custody reference: warehouse stock carries no id,
// driver/customer holders carry the user or customer id.
type Holder struct {
	Type HolderType `json:"type"`
	ID   *int       `json:"id,omitempty"`
}

func WarehouseHolder() Holder {
	return Holder{Type: HolderTypeWarehouse}
}

func DriverHolder(userID int) Holder {
	return Holder{Type: HolderTypeDriver, ID: &userID}
}

func CustomerHolder(customerID int) Holder {
	return Holder{Type: HolderTypeCustomer, ID: &customerID}
}

// Validate rejects holder values that cannot exist (a driver/customer holder
// without an id, or a warehouse holder with one).
func (h Holder) Validate() error {
	switch h.Type {
	case HolderTypeWarehouse:
		if h.ID != nil {
			return errors.New("warehouse holder must not carry an id")
		}
	case HolderTypeDriver, HolderTypeCustomer:
		if h.ID == nil {
			return errors.New("driver/customer holder requires an id")
		}
	default:
		return errors.New("unknown holder type")
	}
	return nil
}

type Cylinder struct {
	ID           int            `json:"id"`
	TenantID     int            `json:"tenant_id"`
	SerialNumber string         `json:"serial_number"` // unique per tenant
	CapacityKg   float64        `json:"capacity_kg"`
	Status       CylinderStatus `json:"status"`
	Holder       Holder         `json:"holder"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// RegisterCylindersRequest registers a batch of new cylinders into warehouse stock
type RegisterCylindersRequest struct {
	SerialNumbers []string `json:"serial_numbers"`
	CapacityKg    float64  `json:"capacity_kg"`
}

// DispatchRequest moves full warehouse cylinders onto a driver's vehicle
type DispatchRequest struct {
	DriverID      int      `json:"driver_id"`
	SerialNumbers []string `json:"serial_numbers"`
}
