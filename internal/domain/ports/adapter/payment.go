package adapter

import "context"

// CheckoutSession is what the gateway hands back for a hosted checkout.
type CheckoutSession struct {
	Token       string
	RedirectURL string
}

// GatewayStatus is the provider's view of one order.
type GatewayStatus struct {
	OrderID           string
	TransactionStatus string // settlement, capture, pending, deny, cancel, expire, ...
	FraudStatus       string // accept, challenge, deny
	PaymentType       string
	GrossAmount       string // provider emits this as a string
}

// PaymentGateway abstracts the hosted-checkout provider (Midtrans).
type PaymentGateway interface {
	Name() string
	// CreateCheckout registers a transaction and returns the hosted page.
	CreateCheckout(ctx context.Context, orderID string, amount int64, customerEmail, description string) (*CheckoutSession, error)
	// QueryStatus asks the provider for the current status of an order.
	QueryStatus(ctx context.Context, orderID string) (*GatewayStatus, error)
}
