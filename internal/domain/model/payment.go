package model

import "time"

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated" // checkout created on provider side
	PaymentStatusPending   PaymentStatus = "pending"   // awaiting settlement at the gateway
	PaymentStatusSucceeded PaymentStatus = "succeeded" // settled/captured with fraud accept
	PaymentStatusFailed    PaymentStatus = "failed"    // denied, cancelled or expired
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment records one external gateway transaction. OrderID is the key the
// gateway echoes back in callbacks and webhooks.
type Payment struct {
	ID          string
	UserID      string
	PlanID      string // empty for per-course purchases
	CourseID    string // empty for subscription purchases
	Provider    string // "midtrans"
	OrderID     string
	Amount      int64 // IDR, no subunit
	Status      PaymentStatus
	PaymentType string // echo of the gateway payment_type
	FraudStatus string
	SnapToken   string
	RedirectURL string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
}

// MapGatewayStatus translates a Midtrans transaction_status/fraud_status
// pair into our payment status. "capture" only counts when fraud screening
// accepted it; "pending" stays pending and never deactivates anything.
func MapGatewayStatus(transactionStatus, fraudStatus string) PaymentStatus {
	switch transactionStatus {
	case "settlement":
		return PaymentStatusSucceeded
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return PaymentStatusSucceeded
		}
		return PaymentStatusPending // challenge: hold until manual review
	case "pending":
		return PaymentStatusPending
	case "deny", "cancel", "expire", "failure":
		return PaymentStatusFailed
	case "refund", "partial_refund":
		return PaymentStatusRefunded
	default:
		return PaymentStatusPending
	}
}

// IsDefinitiveFailure reports whether a status should switch the user's
// subscription mirror off. Pending is not a failure.
func (s PaymentStatus) IsDefinitiveFailure() bool {
	return s == PaymentStatusFailed
}
