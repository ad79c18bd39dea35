package repositories

import (
	"context"
	"fmt"

	"lpg-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct {
	DB DB
}

func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// Create records a checkout attempt in 'created' state
func (r *PaymentRepository) Create(ctx context.Context, p *models.OnlinePayment) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO online_payments (tenant_id, customer_id, razorpay_order_id, amount, status)
		VALUES ($1, $2, $3, $4, 'created')
		RETURNING id, created_at, updated_at
	`, p.TenantID, p.CustomerID, p.RazorpayOrderID, p.Amount).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create online payment: %w", err)
	}
	p.Status = models.OnlineTxStatusCreated
	return nil
}

// GetByOrderID looks up a payment by its Razorpay order id. Verification
// callbacks arrive without tenant context; the tenant comes from the row.
func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlinePayment, error) {
	query := `
		SELECT id, tenant_id, customer_id, razorpay_order_id,
			COALESCE(razorpay_payment_id, '') as razorpay_payment_id,
			amount, status, COALESCE(failure_reason, '') as failure_reason,
			created_at, updated_at
		FROM online_payments
		WHERE razorpay_order_id = $1
	`
	var p models.OnlinePayment
	err := r.DB.QueryRow(ctx, query, orderID).Scan(
		&p.ID, &p.TenantID, &p.CustomerID, &p.RazorpayOrderID, &p.RazorpayPaymentID,
		&p.Amount, &p.Status, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get online payment: %w", err)
	}
	return &p, nil
}

// MarkSuccess settles a payment. Conditional on status so a replayed
// verification cannot settle twice; returns false on the replay.
func (r *PaymentRepository) MarkSuccess(ctx context.Context, orderID, paymentID string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE online_payments
		SET status = 'success', razorpay_payment_id = $1, updated_at = NOW()
		WHERE razorpay_order_id = $2 AND status = 'created'
	`, paymentID, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to mark payment success: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed records a failed or bad-signature attempt
func (r *PaymentRepository) MarkFailed(ctx context.Context, orderID, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE online_payments
		SET status = 'failed', failure_reason = $1, updated_at = NOW()
		WHERE razorpay_order_id = $2 AND status = 'created'
	`, reason, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	return nil
}

// ListByCustomer returns a customer's online payment history
func (r *PaymentRepository) ListByCustomer(ctx context.Context, tenantID, customerID int) ([]models.OnlinePayment, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, tenant_id, customer_id, razorpay_order_id,
			COALESCE(razorpay_payment_id, '') as razorpay_payment_id,
			amount, status, COALESCE(failure_reason, '') as failure_reason,
			created_at, updated_at
		FROM online_payments
		WHERE tenant_id = $1 AND customer_id = $2
		ORDER BY created_at DESC
	`, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list online payments: %w", err)
	}
	defer rows.Close()

	var payments []models.OnlinePayment
	for rows.Next() {
		var p models.OnlinePayment
		if err := rows.Scan(
			&p.ID, &p.TenantID, &p.CustomerID, &p.RazorpayOrderID, &p.RazorpayPaymentID,
			&p.Amount, &p.Status, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
