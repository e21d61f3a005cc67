package application

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentReconciler checks gateway payment signatures locally.
type PaymentReconciler struct {
	secret []byte
}

func NewPaymentReconciler(secret string) *PaymentReconciler {
	return &PaymentReconciler{secret: []byte(secret)}
}

// Sign returns hex(HMAC-SHA256(secret, orderID|paymentID)).
func (r *PaymentReconciler) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, r.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches exactly. Without a secret nothing verifies.
func (r *PaymentReconciler) Verify(orderID, paymentID, signature string) bool {
	if r == nil || len(r.secret) == 0 || signature == "" {
		return false
	}
	return hmac.Equal([]byte(r.Sign(orderID, paymentID)), []byte(signature))
}
