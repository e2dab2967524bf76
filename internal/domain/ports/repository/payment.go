package repository

import (
	"context"
	"time"

	"openlearn-backend/internal/domain/model"
)

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindByOrderID(ctx context.Context, tx Tx, orderID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, status model.PaymentStatus, paidAt *time.Time) error
	SumByPeriod(ctx context.Context, tx Tx, period string) (int64, error)
}

type PurchaseRequestRepository interface {
	Save(ctx context.Context, tx Tx, pr *model.PurchaseRequest) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.PurchaseRequest, error)
	ListPending(ctx context.Context, tx Tx, offset, limit int) ([]*model.PurchaseRequest, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.PurchaseRequest, error)
}
