package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/logging"
)

// Compile-time check
var _ PurchaseUseCase = (*purchaseUC)(nil)

type PurchaseUseCase interface {
	// Create files a manual-transfer purchase request for admin review.
	Create(ctx context.Context, userID string, kind model.PurchaseKind, planID, courseID string, amount int64, proofURL string) (*model.PurchaseRequest, error)
	// Approve transitions pending -> approved exactly once and grants what
	// was bought in the same transaction.
	Approve(ctx context.Context, requestID, adminID string) (*model.PurchaseRequest, error)
	// Reject transitions pending -> rejected exactly once.
	Reject(ctx context.Context, requestID, adminID, note string) (*model.PurchaseRequest, error)
	Pending(ctx context.Context, offset, limit int) ([]*model.PurchaseRequest, error)
	ForUser(ctx context.Context, userID string) ([]*model.PurchaseRequest, error)
}

type purchaseUC struct {
	txm       repository.TransactionManager
	purchases repository.PurchaseRequestRepository
	courses   repository.CourseRepository
	subs      SubscriptionUseCase
	log       *zerolog.Logger
	now       func() time.Time
}

func NewPurchaseUseCase(txm repository.TransactionManager, purchases repository.PurchaseRequestRepository, courses repository.CourseRepository, subs SubscriptionUseCase, log *zerolog.Logger) *purchaseUC {
	return &purchaseUC{txm: txm, purchases: purchases, courses: courses, subs: subs, log: log, now: time.Now}
}

func (u *purchaseUC) Create(ctx context.Context, userID string, kind model.PurchaseKind, planID, courseID string, amount int64, proofURL string) (*model.PurchaseRequest, error) {
	switch kind {
	case model.PurchaseKindSubscription:
		if planID == "" {
			return nil, fmt.Errorf("%w: plan id required", domain.ErrInvalidArgument)
		}
	case model.PurchaseKindCourse:
		if courseID == "" {
			return nil, fmt.Errorf("%w: course id required", domain.ErrInvalidArgument)
		}
	default:
		return nil, fmt.Errorf("%w: unknown purchase kind %q", domain.ErrInvalidArgument, kind)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidArgument)
	}

	pr := &model.PurchaseRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		PlanID:    planID,
		CourseID:  courseID,
		Amount:    amount,
		ProofURL:  proofURL,
		Status:    model.PurchaseRequestPending,
		CreatedAt: u.now(),
	}
	if err := u.purchases.Save(ctx, repository.NoTX, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (u *purchaseUC) Approve(ctx context.Context, requestID, adminID string) (*model.PurchaseRequest, error) {
	defer logging.TraceDuration(u.log, "PurchaseUC.Approve")()

	now := u.now().UTC()
	var out *model.PurchaseRequest

	err := u.txm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		pr, err := u.purchases.FindByID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		out = pr
		if pr.Reviewed() {
			return domain.ErrAlreadyProcessed
		}

		if err := u.txm.LockUser(ctx, tx, pr.UserID); err != nil {
			return err
		}

		switch pr.Kind {
		case model.PurchaseKindSubscription:
			if _, err := u.subs.ApplyPaidPeriod(ctx, tx, pr.UserID, pr.PlanID, "manual:"+pr.ID, now); err != nil {
				return err
			}
		case model.PurchaseKindCourse:
			grant := &model.CourseGrant{UserID: pr.UserID, CourseID: pr.CourseID, RequestID: pr.ID, GrantedAt: now}
			if err := u.courses.SaveGrant(ctx, tx, grant); err != nil {
				return err
			}
		}

		pr.Status = model.PurchaseRequestApproved
		pr.ReviewedAt = &now
		pr.ReviewedBy = adminID
		return u.purchases.Save(ctx, tx, pr)
	})
	if err != nil {
		return out, err
	}

	u.log.Info().Str("request_id", requestID).Str("admin_id", adminID).Msg("purchase request approved")
	return out, nil
}

func (u *purchaseUC) Reject(ctx context.Context, requestID, adminID, note string) (*model.PurchaseRequest, error) {
	now := u.now().UTC()
	var out *model.PurchaseRequest

	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		pr, err := u.purchases.FindByID(ctx, tx, requestID)
		if err != nil {
			return err
		}
		out = pr
		if pr.Reviewed() {
			return domain.ErrAlreadyProcessed
		}
		pr.Status = model.PurchaseRequestRejected
		pr.Note = note
		pr.ReviewedAt = &now
		pr.ReviewedBy = adminID
		return u.purchases.Save(ctx, tx, pr)
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

func (u *purchaseUC) Pending(ctx context.Context, offset, limit int) ([]*model.PurchaseRequest, error) {
	return u.purchases.ListPending(ctx, repository.NoTX, offset, limit)
}

func (u *purchaseUC) ForUser(ctx context.Context, userID string) ([]*model.PurchaseRequest, error) {
	return u.purchases.ListByUser(ctx, repository.NoTX, userID)
}
