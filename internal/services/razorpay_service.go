package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"lpg-backend/internal/models"
	"lpg-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayService lets customers clear their ledger balance online. A
// successful payment lands as an ONLINE_PAYMENT credit posting.
type RazorpayService struct {
	payments  *repositories.PaymentRepository
	customers *CustomerService
	keyID     string
	keySecret string
}

func NewRazorpayService(keyID, keySecret string, payments *repositories.PaymentRepository, customers *CustomerService) *RazorpayService {
	return &RazorpayService{
		payments:  payments,
		customers: customers,
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// IsEnabled reports whether credentials are configured
func (s *RazorpayService) IsEnabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

func (s *RazorpayService) client() *razorpay.Client {
	if !s.IsEnabled() {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// CreateOrder creates a Razorpay order for a customer payment and records the
// attempt
func (s *RazorpayService) CreateOrder(ctx context.Context, tenantID int, req *models.CreateOnlinePaymentRequest) (*models.CreateOnlinePaymentResponse, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	client := s.client()
	if client == nil {
		return nil, fmt.Errorf("online payments are not configured")
	}

	customer, err := s.customers.Get(ctx, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	// Razorpay amounts are in paise
	amountPaise := int(req.Amount * 100)
	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("rcpt_%d_%d_%d", tenantID, customer.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"tenant_id":   tenantID,
			"customer_id": customer.ID,
		},
	}
	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}
	orderID, _ := order["id"].(string)

	payment := &models.OnlinePayment{
		TenantID:        tenantID,
		CustomerID:      customer.ID,
		RazorpayOrderID: orderID,
		Amount:          req.Amount,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &models.CreateOnlinePaymentResponse{
		OrderID:     orderID,
		AmountPaise: amountPaise,
		Currency:    "INR",
		KeyID:       s.keyID,
		Amount:      req.Amount,
	}, nil
}

// VerifyPayment checks the checkout signature and settles the payment. The
// settle is conditional on the row still being 'created', so a replayed
// callback posts the ledger credit at most once.
func (s *RazorpayService) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.OnlinePayment, error) {
	if !s.verifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		_ = s.payments.MarkFailed(ctx, req.RazorpayOrderID, "invalid signature")
		return nil, fmt.Errorf("%w: invalid payment signature", ErrInvalidInput)
	}

	payment, err := s.payments.GetByOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, fmt.Errorf("%w: payment order %s", ErrNotFound, req.RazorpayOrderID)
	}

	settled, err := s.payments.MarkSuccess(ctx, req.RazorpayOrderID, req.RazorpayPaymentID)
	if err != nil {
		return nil, err
	}
	if !settled {
		// Already processed
		return payment, nil
	}

	_, err = s.customers.PostLedgerEntry(ctx, payment.TenantID, &models.CreateLedgerEntryRequest{
		CustomerID:    payment.CustomerID,
		EntryType:     models.LedgerEntryTypeOnlinePayment,
		Description:   "Online payment " + req.RazorpayPaymentID,
		Credit:        payment.Amount,
		ReferenceID:   &payment.ID,
		ReferenceType: "payment",
	})
	if err != nil {
		return nil, fmt.Errorf("payment settled but ledger posting failed: %w", err)
	}

	payment.Status = models.OnlineTxStatusSuccess
	payment.RazorpayPaymentID = req.RazorpayPaymentID
	return payment, nil
}

// ListByCustomer returns a customer's online payment history
func (s *RazorpayService) ListByCustomer(ctx context.Context, tenantID, customerID int) ([]models.OnlinePayment, error) {
	return s.payments.ListByCustomer(ctx, tenantID, customerID)
}

func (s *RazorpayService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
