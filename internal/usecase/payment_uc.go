package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/adapter"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/logging"
	"openlearn-backend/internal/infra/metrics"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

type PaymentUseCase interface {
	// CheckoutSubscription opens a hosted checkout for a plan and records
	// the pending payment.
	CheckoutSubscription(ctx context.Context, userID, planID string) (*model.Payment, error)
	// CheckoutCourse opens a hosted checkout for a single premium course.
	CheckoutCourse(ctx context.Context, userID, courseID string) (*model.Payment, error)
	// Confirm pulls the authoritative status from the gateway and applies it.
	Confirm(ctx context.Context, orderID string) (*model.Payment, error)
	// ApplyStatus applies a verified gateway status to the stored payment.
	// It is idempotent: replaying a settled order changes nothing.
	ApplyStatus(ctx context.Context, status *adapter.GatewayStatus) (*model.Payment, error)
}

type paymentUC struct {
	txm      repository.TransactionManager
	payments repository.PaymentRepository
	plans    repository.PlanRepository
	courses  repository.CourseRepository
	users    repository.UserRepository
	subs     SubscriptionUseCase
	gateway  adapter.PaymentGateway
	log      *zerolog.Logger
	now      func() time.Time
}

func NewPaymentUseCase(
	txm repository.TransactionManager,
	payments repository.PaymentRepository,
	plans repository.PlanRepository,
	courses repository.CourseRepository,
	users repository.UserRepository,
	subs SubscriptionUseCase,
	gateway adapter.PaymentGateway,
	log *zerolog.Logger,
) *paymentUC {
	return &paymentUC{
		txm:      txm,
		payments: payments,
		plans:    plans,
		courses:  courses,
		users:    users,
		subs:     subs,
		gateway:  gateway,
		log:      log,
		now:      time.Now,
	}
}

func newOrderID() string {
	return "OL-" + ulid.Make().String()
}

func (u *paymentUC) CheckoutSubscription(ctx context.Context, userID, planID string) (*model.Payment, error) {
	plan, err := u.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		return nil, err
	}
	return u.checkout(ctx, userID, planID, "", plan.PriceIDR, plan.Name)
}

func (u *paymentUC) CheckoutCourse(ctx context.Context, userID, courseID string) (*model.Payment, error) {
	course, err := u.courses.FindByID(ctx, repository.NoTX, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Premium || course.PriceIDR <= 0 {
		return nil, fmt.Errorf("%w: course is not purchasable", domain.ErrInvalidArgument)
	}
	return u.checkout(ctx, userID, "", courseID, course.PriceIDR, course.Title)
}

func (u *paymentUC) checkout(ctx context.Context, userID, planID, courseID string, amount int64, description string) (*model.Payment, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.Checkout")()

	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}

	orderID := newOrderID()
	session, err := u.gateway.CreateCheckout(ctx, orderID, amount, user.Email, description)
	if err != nil {
		return nil, err
	}

	now := u.now()
	p := &model.Payment{
		ID:          uuid.NewString(),
		UserID:      userID,
		PlanID:      planID,
		CourseID:    courseID,
		Provider:    u.gateway.Name(),
		OrderID:     orderID,
		Amount:      amount,
		Status:      model.PaymentStatusPending,
		SnapToken:   session.Token,
		RedirectURL: session.RedirectURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *paymentUC) Confirm(ctx context.Context, orderID string) (*model.Payment, error) {
	status, err := u.gateway.QueryStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.ApplyStatus(ctx, status)
}

func (u *paymentUC) ApplyStatus(ctx context.Context, status *adapter.GatewayStatus) (*model.Payment, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.ApplyStatus")()

	mapped := model.MapGatewayStatus(status.TransactionStatus, status.FraudStatus)
	var out *model.Payment

	err := u.txm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.payments.FindByOrderID(ctx, tx, status.OrderID)
		if err != nil {
			return err
		}
		out = p

		// Replay of a settled order is a no-op, never a double credit.
		if p.Status == model.PaymentStatusSucceeded {
			return nil
		}

		p.PaymentType = status.PaymentType
		p.FraudStatus = status.FraudStatus

		switch mapped {
		case model.PaymentStatusSucceeded:
			if err := u.txm.LockUser(ctx, tx, p.UserID); err != nil {
				return err
			}
			now := u.now().UTC()
			if err := u.payments.UpdateStatus(ctx, tx, p.ID, mapped, &now); err != nil {
				return err
			}
			p.Status = mapped
			p.PaidAt = &now
			switch {
			case p.PlanID != "":
				if _, err := u.subs.ApplyPaidPeriod(ctx, tx, p.UserID, p.PlanID, p.OrderID, now); err != nil {
					return err
				}
			case p.CourseID != "":
				grant := &model.CourseGrant{UserID: p.UserID, CourseID: p.CourseID, RequestID: p.ID, GrantedAt: now}
				if err := u.courses.SaveGrant(ctx, tx, grant); err != nil {
					return err
				}
			}
			return nil

		case model.PaymentStatusFailed:
			if err := u.payments.UpdateStatus(ctx, tx, p.ID, mapped, nil); err != nil {
				return err
			}
			p.Status = mapped
			if p.PlanID != "" {
				return u.subs.MarkFailed(ctx, tx, p.UserID, p.OrderID)
			}
			return nil

		default:
			// pending or refunded: record the state, touch nothing else
			if err := u.payments.UpdateStatus(ctx, tx, p.ID, mapped, nil); err != nil {
				return err
			}
			p.Status = mapped
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPayment(string(out.Status))
	u.log.Info().Str("order_id", out.OrderID).Str("status", string(out.Status)).
		Str("gateway_status", status.TransactionStatus).Msg("payment status applied")
	return out, nil
}
