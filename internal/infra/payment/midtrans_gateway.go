package payment

import (
	"context"
	"fmt"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/config"
	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*MidtransGateway)(nil)

// MidtransGateway drives the hosted Snap checkout and the status API.
type MidtransGateway struct {
	snap snap.Client
	core coreapi.Client
	log  *zerolog.Logger
}

func NewMidtransGateway(cfg *config.PaymentConfig, log *zerolog.Logger) *MidtransGateway {
	env := midtrans.Sandbox
	if cfg.Midtrans.Production {
		env = midtrans.Production
	}
	g := &MidtransGateway{log: log}
	g.snap.New(cfg.Midtrans.ServerKey, env)
	g.core.New(cfg.Midtrans.ServerKey, env)
	return g
}

func (g *MidtransGateway) Name() string { return "midtrans" }

func (g *MidtransGateway) CreateCheckout(ctx context.Context, orderID string, amount int64, customerEmail, description string) (*adapter.CheckoutSession, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: customerEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    orderID,
				Price: amount,
				Qty:   1,
				Name:  truncate(description, 50),
			},
		},
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := g.snap.CreateTransaction(req)
	if err != nil {
		g.log.Error().Err(err.GetRawError()).Str("order_id", orderID).Msg("snap create transaction failed")
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamFailure, err.GetMessage())
	}
	return &adapter.CheckoutSession{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (g *MidtransGateway) QueryStatus(ctx context.Context, orderID string) (*adapter.GatewayStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := g.core.CheckTransaction(orderID)
	if err != nil {
		g.log.Error().Err(err.GetRawError()).Str("order_id", orderID).Msg("check transaction failed")
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamFailure, err.GetMessage())
	}
	return &adapter.GatewayStatus{
		OrderID:           resp.OrderID,
		TransactionStatus: resp.TransactionStatus,
		FraudStatus:       resp.FraudStatus,
		PaymentType:       resp.PaymentType,
		GrossAmount:       resp.GrossAmount,
	}, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
