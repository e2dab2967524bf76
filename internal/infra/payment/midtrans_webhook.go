package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/ports/adapter"
)

// Notification is the POST body Midtrans sends to the webhook endpoint.
// Only the fields we consume are declared.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

// GatewayStatus converts a verified notification into the neutral status
// shape the payment usecase consumes.
func (n *Notification) GatewayStatus() *adapter.GatewayStatus {
	return &adapter.GatewayStatus{
		OrderID:           n.OrderID,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		PaymentType:       n.PaymentType,
		GrossAmount:       n.GrossAmount,
	}
}

// WebhookVerifier checks the signature_key Midtrans attaches to each
// notification: sha512 over order_id + status_code + gross_amount + server key,
// hex encoded.
type WebhookVerifier struct {
	serverKey string
}

func NewWebhookVerifier(serverKey string) *WebhookVerifier {
	return &WebhookVerifier{serverKey: serverKey}
}

// Verify recomputes the expected signature and compares it to the one in the
// notification. Comparison is constant time over the lower-cased hex forms.
func (v *WebhookVerifier) Verify(n *Notification) error {
	if n == nil || n.SignatureKey == "" {
		return domain.ErrInvalidSignature
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, v.serverKey)
	got := strings.ToLower(n.SignatureKey)
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Signature computes the hex digest Midtrans documents for notifications.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
