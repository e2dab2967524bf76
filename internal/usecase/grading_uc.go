package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/logging"
	"openlearn-backend/internal/infra/metrics"
	"openlearn-backend/internal/infra/redis"
)

// Compile-time check
var _ GradingUseCase = (*gradingUC)(nil)

type GradingUseCase interface {
	// Submit stores a submission and auto-grades it when the assignment
	// qualifies. Auto-approval awards points immediately, at most once.
	Submit(ctx context.Context, assignmentID, userID string, answers []model.Answer) (*model.Submission, error)
	// Review applies a grader's decision. Awarding is at-most-once: a
	// submission that already consumed its award is rejected with
	// ErrAlreadyProcessed.
	Review(ctx context.Context, submissionID, reviewerID string, decision model.SubmissionStatus, awardedPoints int) (*model.Submission, error)
	PendingReview(ctx context.Context, offset, limit int) ([]*model.Submission, error)
}

type gradingUC struct {
	txm         repository.TransactionManager
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	users       repository.UserRepository
	board       *redis.Leaderboard
	log         *zerolog.Logger
	now         func() time.Time
}

func NewGradingUseCase(
	txm repository.TransactionManager,
	assignments repository.AssignmentRepository,
	submissions repository.SubmissionRepository,
	users repository.UserRepository,
	board *redis.Leaderboard,
	log *zerolog.Logger,
) *gradingUC {
	return &gradingUC{
		txm:         txm,
		assignments: assignments,
		submissions: submissions,
		users:       users,
		board:       board,
		log:         log,
		now:         time.Now,
	}
}

func (u *gradingUC) Submit(ctx context.Context, assignmentID, userID string, answers []model.Answer) (*model.Submission, error) {
	defer logging.TraceDuration(u.log, "GradingUC.Submit")()

	assignment, err := u.assignments.FindByID(ctx, repository.NoTX, assignmentID)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: empty answers", domain.ErrInvalidArgument)
	}

	now := u.now().UTC()
	grade := model.GradeQuiz(assignment, answers)
	var (
		sub    *model.Submission
		reward int
	)

	err = u.txm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		reward = 0
		if err := u.txm.LockUser(ctx, tx, userID); err != nil {
			return err
		}

		existing, err := u.submissions.FindByAssignmentAndUser(ctx, tx, assignmentID, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if existing.Awarded() {
			sub = existing
			return domain.ErrAlreadyProcessed
		}

		sub = &model.Submission{
			ID:           uuid.NewString(),
			AssignmentID: assignmentID,
			UserID:       userID,
			Status:       model.SubmissionStatusSubmitted,
			Answers:      answers,
			SubmittedAt:  now,
		}
		if existing != nil {
			sub.ID = existing.ID
		}

		if grade.AutoApprove && grade.AutoScore != nil {
			reward = int(math.Round(*grade.AutoScore * float64(assignment.Points)))
			sub.Status = model.SubmissionStatusApproved
			sub.AwardedPoints = reward
			reviewed := now
			sub.ReviewedAt = &reviewed

			if reward > 0 {
				if err := u.awardPoints(ctx, tx, userID, reward); err != nil {
					return err
				}
			}
		}
		return u.submissions.Save(ctx, tx, sub)
	})
	if err != nil {
		return sub, err
	}

	if sub.Status == model.SubmissionStatusApproved {
		metrics.IncSubmissionGraded("auto", string(sub.Status))
		u.pushScore(ctx, userID, now, reward)
	}
	return sub, nil
}

func (u *gradingUC) Review(ctx context.Context, submissionID, reviewerID string, decision model.SubmissionStatus, awardedPoints int) (*model.Submission, error) {
	defer logging.TraceDuration(u.log, "GradingUC.Review")()

	switch decision {
	case model.SubmissionStatusApproved, model.SubmissionStatusRejected, model.SubmissionStatusNeedsCorrection:
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", domain.ErrInvalidArgument, decision)
	}

	now := u.now().UTC()
	var (
		sub    *model.Submission
		reward int
	)

	err := u.txm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		reward = 0
		s, err := u.submissions.FindByID(ctx, tx, submissionID)
		if err != nil {
			return err
		}
		sub = s

		// The award is consumed exactly once.
		if s.Awarded() {
			return domain.ErrAlreadyProcessed
		}

		if decision == model.SubmissionStatusApproved {
			assignment, err := u.assignments.FindByID(ctx, tx, s.AssignmentID)
			if err != nil {
				return err
			}
			reward = awardedPoints
			if reward <= 0 || reward > assignment.Points {
				reward = assignment.Points
			}
			if err := u.txm.LockUser(ctx, tx, s.UserID); err != nil {
				return err
			}
			if err := u.awardPoints(ctx, tx, s.UserID, reward); err != nil {
				return err
			}
			s.AwardedPoints = reward
		}

		s.Status = decision
		s.ReviewedAt = &now
		s.ReviewedBy = reviewerID
		return u.submissions.Save(ctx, tx, s)
	})
	if err != nil {
		return sub, err
	}

	metrics.IncSubmissionGraded("manual", string(decision))
	if reward > 0 {
		u.pushScore(ctx, sub.UserID, now, reward)
	}
	return sub, nil
}

func (u *gradingUC) PendingReview(ctx context.Context, offset, limit int) ([]*model.Submission, error) {
	return u.submissions.ListPendingReview(ctx, repository.NoTX, offset, limit)
}

func (u *gradingUC) awardPoints(ctx context.Context, tx repository.Tx, userID string, points int) error {
	user, err := u.users.FindByID(ctx, tx, userID)
	if err != nil {
		return err
	}
	user.TotalScore += points
	user.SeasonalScore += points
	user.Touch()
	return u.users.Save(ctx, tx, user)
}

func (u *gradingUC) pushScore(ctx context.Context, userID string, now time.Time, delta int) {
	if u.board == nil || delta == 0 {
		return
	}
	if err := u.board.AddScore(ctx, userID, model.SeasonKey(now), delta); err != nil {
		u.log.Warn().Err(err).Str("user_id", userID).Msg("leaderboard score push failed")
	}
}
