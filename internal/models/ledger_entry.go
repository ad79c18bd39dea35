package models

import "time"

// LedgerEntryType represents the type of ledger entry
type LedgerEntryType string

const (
	LedgerEntryTypeSale          LedgerEntryType = "SALE"           // Cylinder delivery charged to the customer
	LedgerEntryTypePayment       LedgerEntryType = "PAYMENT"        // Cash payment collected by a driver
	LedgerEntryTypeCredit        LedgerEntryType = "CREDIT"         // Discount/adjustment given
	LedgerEntryTypeRefund        LedgerEntryType = "REFUND"         // Money returned to customer
	LedgerEntryTypeDeposit       LedgerEntryType = "DEPOSIT"        // Security deposit for cylinders
	LedgerEntryTypeOnlinePayment LedgerEntryType = "ONLINE_PAYMENT" // Online payment via Razorpay
)

// LedgerEntry is a single immutable posting in a customer's ledger.
//
// Sign convention: debit increases what the customer owes, credit reduces it.
// A customer's real balance is SUM(debit) - SUM(credit) over all postings;
// the denormalized customers.current_balance is expected to track it and is
// checked by the reconciliation scan.
type LedgerEntry struct {
	ID              int             `json:"id"`
	TenantID        int             `json:"tenant_id"`
	CustomerID      int             `json:"customer_id"`
	EntryType       LedgerEntryType `json:"entry_type"`
	Description     string          `json:"description"`
	Debit           float64         `json:"debit"`
	Credit          float64         `json:"credit"`
	ReferenceID     *int            `json:"reference_id"`   // Links to order_id, handover_id, payment_id
	ReferenceType   string          `json:"reference_type"` // 'order', 'handover', 'payment'
	CreatedByUserID int             `json:"created_by_user_id"`
	CreatedAt       time.Time       `json:"created_at"`
	Notes           string          `json:"notes"`
}

// CreateLedgerEntryRequest is used when posting a new ledger entry
type CreateLedgerEntryRequest struct {
	CustomerID      int             `json:"customer_id"`
	EntryType       LedgerEntryType `json:"entry_type"`
	Description     string          `json:"description"`
	Debit           float64         `json:"debit"`
	Credit          float64         `json:"credit"`
	ReferenceID     *int            `json:"reference_id"`
	ReferenceType   string          `json:"reference_type"`
	CreatedByUserID int             `json:"created_by_user_id"`
	Notes           string          `json:"notes"`
}

// LedgerFilter is used for filtering ledger entries
type LedgerFilter struct {
	CustomerID int             `json:"customer_id"`
	EntryType  LedgerEntryType `json:"entry_type"`
	StartDate  *time.Time      `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}
