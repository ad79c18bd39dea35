package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayment(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := NewRazorpayService("key_id", "key_secret", nil, nil)

	valid := signPayment("key_secret", "order_abc", "pay_xyz")
	assert.True(t, svc.verifySignature("order_abc", "pay_xyz", valid))

	// signature for a different payment does not transfer
	assert.False(t, svc.verifySignature("order_abc", "pay_other", valid))
	assert.False(t, svc.verifySignature("order_abc", "pay_xyz", "deadbeef"))

	wrongSecret := signPayment("other_secret", "order_abc", "pay_xyz")
	assert.False(t, svc.verifySignature("order_abc", "pay_xyz", wrongSecret))
}

func TestVerifySignature_NoSecretNeverPasses(t *testing.T) {
	svc := NewRazorpayService("key_id", "", nil, nil)
	assert.False(t, svc.verifySignature("order_abc", "pay_xyz",
		signPayment("", "order_abc", "pay_xyz")))
}

func TestIsEnabled(t *testing.T) {
	assert.True(t, NewRazorpayService("id", "secret", nil, nil).IsEnabled())
	assert.False(t, NewRazorpayService("", "", nil, nil).IsEnabled())
	assert.False(t, NewRazorpayService("id", "", nil, nil).IsEnabled())
}
