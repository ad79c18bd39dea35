package models

import "time"

// OnlineTxStatus tracks an online payment from order creation to settlement
type OnlineTxStatus string

const (
	OnlineTxStatusCreated OnlineTxStatus = "created"
	OnlineTxStatusSuccess OnlineTxStatus = "success"
	OnlineTxStatusFailed  OnlineTxStatus = "failed"
)

// OnlinePayment is one Razorpay checkout attempt against a customer's ledger
type OnlinePayment struct {
	ID                int            `json:"id"`
	TenantID          int            `json:"tenant_id"`
	CustomerID        int            `json:"customer_id"`
	RazorpayOrderID   string         `json:"razorpay_order_id"`
	RazorpayPaymentID string         `json:"razorpay_payment_id,omitempty"`
	Amount            float64        `json:"amount"`
	Status            OnlineTxStatus `json:"status"`
	FailureReason     string         `json:"failure_reason,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type CreateOnlinePaymentRequest struct {
	CustomerID int     `json:"customer_id"`
	Amount     float64 `json:"amount"`
}

type CreateOnlinePaymentResponse struct {
	OrderID     string  `json:"order_id"`
	AmountPaise int     `json:"amount_paise"`
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
	Amount      float64 `json:"amount"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// TOTPSetupResponse carries the provisioning material for an authenticator app
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}
