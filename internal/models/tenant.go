package models

import "time"

// Tenant is one gas agency on the platform. All domain rows carry a
// tenant_id and every query filters on it.
type Tenant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
