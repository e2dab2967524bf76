//go:build !integration

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/adapter"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// Usecase stubs with overridable funcs. Unset funcs return not-found or
// zero values so handlers can be tested one at a time.

type stubUserUC struct {
	RegisterFunc     func(ctx context.Context, email, displayName, password string) (*model.User, error)
	AuthenticateFunc func(ctx context.Context, email, password string) (*model.User, error)
	ProfileFunc      func(ctx context.Context, userID string) (*model.User, error)
}

var _ usecase.UserUseCase = (*stubUserUC)(nil)

func (s *stubUserUC) Register(ctx context.Context, email, displayName, password string) (*model.User, error) {
	if s.RegisterFunc != nil {
		return s.RegisterFunc(ctx, email, displayName, password)
	}
	return nil, domain.ErrInvalidArgument
}

func (s *stubUserUC) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if s.AuthenticateFunc != nil {
		return s.AuthenticateFunc(ctx, email, password)
	}
	return nil, domain.ErrUnauthorized
}

func (s *stubUserUC) Profile(ctx context.Context, userID string) (*model.User, error) {
	if s.ProfileFunc != nil {
		return s.ProfileFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserUC) List(context.Context, int, int) ([]*model.User, error) { return nil, nil }

type stubStreakUC struct {
	ClaimFunc func(ctx context.Context, userID string) (*model.ClaimResult, error)
}

var _ usecase.StreakUseCase = (*stubStreakUC)(nil)

func (s *stubStreakUC) Claim(ctx context.Context, userID string) (*model.ClaimResult, error) {
	if s.ClaimFunc != nil {
		return s.ClaimFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

type stubSubUC struct {
	StatusFunc func(ctx context.Context, userID string) (*model.Subscription, error)
	PlansFunc  func(ctx context.Context) ([]*model.SubscriptionPlan, error)
}

var _ usecase.SubscriptionUseCase = (*stubSubUC)(nil)

func (s *stubSubUC) ApplyPaidPeriod(context.Context, repository.Tx, string, string, string, time.Time) (*model.Period, error) {
	return nil, nil
}

func (s *stubSubUC) MarkFailed(context.Context, repository.Tx, string, string) error { return nil }

func (s *stubSubUC) Status(ctx context.Context, userID string) (*model.Subscription, error) {
	if s.StatusFunc != nil {
		return s.StatusFunc(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubSubUC) Plans(ctx context.Context) ([]*model.SubscriptionPlan, error) {
	if s.PlansFunc != nil {
		return s.PlansFunc(ctx)
	}
	return nil, nil
}

func (s *stubSubUC) FinishExpired(context.Context) (int, error) { return 0, nil }

type stubPayUC struct {
	CheckoutSubscriptionFunc func(ctx context.Context, userID, planID string) (*model.Payment, error)
	CheckoutCourseFunc       func(ctx context.Context, userID, courseID string) (*model.Payment, error)
	ConfirmFunc              func(ctx context.Context, orderID string) (*model.Payment, error)
	ApplyStatusFunc          func(ctx context.Context, status *adapter.GatewayStatus) (*model.Payment, error)
}

var _ usecase.PaymentUseCase = (*stubPayUC)(nil)

func (s *stubPayUC) CheckoutSubscription(ctx context.Context, userID, planID string) (*model.Payment, error) {
	if s.CheckoutSubscriptionFunc != nil {
		return s.CheckoutSubscriptionFunc(ctx, userID, planID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubPayUC) CheckoutCourse(ctx context.Context, userID, courseID string) (*model.Payment, error) {
	if s.CheckoutCourseFunc != nil {
		return s.CheckoutCourseFunc(ctx, userID, courseID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubPayUC) Confirm(ctx context.Context, orderID string) (*model.Payment, error) {
	if s.ConfirmFunc != nil {
		return s.ConfirmFunc(ctx, orderID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubPayUC) ApplyStatus(ctx context.Context, status *adapter.GatewayStatus) (*model.Payment, error) {
	if s.ApplyStatusFunc != nil {
		return s.ApplyStatusFunc(ctx, status)
	}
	return nil, domain.ErrNotFound
}

type stubPurchaseUC struct {
	CreateFunc func(ctx context.Context, userID string, kind model.PurchaseKind, planID, courseID string, amount int64, proofURL string) (*model.PurchaseRequest, error)
}

var _ usecase.PurchaseUseCase = (*stubPurchaseUC)(nil)

func (s *stubPurchaseUC) Create(ctx context.Context, userID string, kind model.PurchaseKind, planID, courseID string, amount int64, proofURL string) (*model.PurchaseRequest, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, userID, kind, planID, courseID, amount, proofURL)
	}
	return nil, domain.ErrInvalidArgument
}

func (s *stubPurchaseUC) Approve(context.Context, string, string) (*model.PurchaseRequest, error) {
	return nil, domain.ErrNotFound
}

func (s *stubPurchaseUC) Reject(context.Context, string, string, string) (*model.PurchaseRequest, error) {
	return nil, domain.ErrNotFound
}

func (s *stubPurchaseUC) Pending(context.Context, int, int) ([]*model.PurchaseRequest, error) {
	return nil, nil
}

func (s *stubPurchaseUC) ForUser(context.Context, string) ([]*model.PurchaseRequest, error) {
	return nil, nil
}

type stubCourseUC struct {
	CatalogFunc         func(ctx context.Context, offset, limit int) ([]*model.Course, error)
	GetFunc             func(ctx context.Context, slug string) (*model.Course, error)
	CompleteChapterFunc func(ctx context.Context, userID, courseID, chapterID string) (*model.Certificate, error)
}

var _ usecase.CourseUseCase = (*stubCourseUC)(nil)

func (s *stubCourseUC) Catalog(ctx context.Context, offset, limit int) ([]*model.Course, error) {
	if s.CatalogFunc != nil {
		return s.CatalogFunc(ctx, offset, limit)
	}
	return nil, nil
}

func (s *stubCourseUC) Get(ctx context.Context, slug string) (*model.Course, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, slug)
	}
	return nil, domain.ErrNotFound
}

func (s *stubCourseUC) CanAccess(context.Context, string, string) (bool, error) { return false, nil }

func (s *stubCourseUC) CompleteChapter(ctx context.Context, userID, courseID, chapterID string) (*model.Certificate, error) {
	if s.CompleteChapterFunc != nil {
		return s.CompleteChapterFunc(ctx, userID, courseID, chapterID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubCourseUC) Certificates(context.Context, string) ([]*model.Certificate, error) {
	return nil, nil
}

type stubGradingUC struct {
	SubmitFunc func(ctx context.Context, assignmentID, userID string, answers []model.Answer) (*model.Submission, error)
	ReviewFunc func(ctx context.Context, submissionID, reviewerID string, decision model.SubmissionStatus, awardedPoints int) (*model.Submission, error)
}

var _ usecase.GradingUseCase = (*stubGradingUC)(nil)

func (s *stubGradingUC) Submit(ctx context.Context, assignmentID, userID string, answers []model.Answer) (*model.Submission, error) {
	if s.SubmitFunc != nil {
		return s.SubmitFunc(ctx, assignmentID, userID, answers)
	}
	return nil, domain.ErrNotFound
}

func (s *stubGradingUC) Review(ctx context.Context, submissionID, reviewerID string, decision model.SubmissionStatus, awardedPoints int) (*model.Submission, error) {
	if s.ReviewFunc != nil {
		return s.ReviewFunc(ctx, submissionID, reviewerID, decision, awardedPoints)
	}
	return nil, domain.ErrNotFound
}

func (s *stubGradingUC) PendingReview(context.Context, int, int) ([]*model.Submission, error) {
	return nil, nil
}

type stubLeaderboardUC struct {
	TopFunc func(ctx context.Context, seasonal bool, limit int) ([]*model.LeaderboardEntry, error)
}

var _ usecase.LeaderboardUseCase = (*stubLeaderboardUC)(nil)

func (s *stubLeaderboardUC) Top(ctx context.Context, seasonal bool, limit int) ([]*model.LeaderboardEntry, error) {
	if s.TopFunc != nil {
		return s.TopFunc(ctx, seasonal, limit)
	}
	return nil, nil
}

func (s *stubLeaderboardUC) ResetSeason(context.Context, string) (int, error) { return 0, nil }

type stubAssistantUC struct {
	AskFunc func(ctx context.Context, userID, question string, history []adapter.Message) (string, error)
}

var _ usecase.AssistantUseCase = (*stubAssistantUC)(nil)

func (s *stubAssistantUC) Ask(ctx context.Context, userID, question string, history []adapter.Message) (string, error) {
	if s.AskFunc != nil {
		return s.AskFunc(ctx, userID, question, history)
	}
	return "", domain.ErrInvalidArgument
}

type stubForumUC struct {
	CreateThreadFunc func(ctx context.Context, courseID, authorID, title, body string) (*model.ForumThread, error)
	DeleteThreadFunc func(ctx context.Context, threadID, callerID string, callerIsAdmin bool) error
}

var _ usecase.ForumUseCase = (*stubForumUC)(nil)

func (s *stubForumUC) CreateThread(ctx context.Context, courseID, authorID, title, body string) (*model.ForumThread, error) {
	if s.CreateThreadFunc != nil {
		return s.CreateThreadFunc(ctx, courseID, authorID, title, body)
	}
	return nil, domain.ErrInvalidArgument
}

func (s *stubForumUC) Threads(context.Context, string, int, int) ([]*model.ForumThread, error) {
	return nil, nil
}

func (s *stubForumUC) Thread(context.Context, string) (*model.ForumThread, []*model.ForumReply, error) {
	return nil, nil, domain.ErrNotFound
}

func (s *stubForumUC) Reply(context.Context, string, string, string) (*model.ForumReply, error) {
	return nil, domain.ErrNotFound
}

func (s *stubForumUC) DeleteThread(ctx context.Context, threadID, callerID string, callerIsAdmin bool) error {
	if s.DeleteThreadFunc != nil {
		return s.DeleteThreadFunc(ctx, threadID, callerID, callerIsAdmin)
	}
	return domain.ErrNotFound
}
