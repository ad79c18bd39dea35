package models

import "time"

type Customer struct {
	ID             int       `json:"id"`
	TenantID       int       `json:"tenant_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	CurrentBalance float64   `json:"current_balance"` // positive = customer owes money
	CreditLimit    float64   `json:"credit_limit"`
	BalanceVersion int       `json:"balance_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	CreditLimit float64 `json:"credit_limit"`
}

// UpdateCustomerRequest represents the request body for updating a customer
type UpdateCustomerRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	CreditLimit float64 `json:"credit_limit"`
}

// CustomerBalance is the slim projection used by the reconciliation scan.
type CustomerBalance struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	CurrentBalance float64 `json:"current_balance"`
	BalanceVersion int     `json:"balance_version"`
}
