package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/config"
	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
	"openlearn-backend/internal/infra/logging"
)

// Compile-time check
var _ CourseUseCase = (*courseUC)(nil)

type CourseUseCase interface {
	Catalog(ctx context.Context, offset, limit int) ([]*model.Course, error)
	Get(ctx context.Context, slug string) (*model.Course, error)
	// CanAccess decides whether a user may read a course's chapters.
	CanAccess(ctx context.Context, userID, courseID string) (bool, error)
	// CompleteChapter marks one chapter done and issues the certificate
	// when it was the last one. Re-marking a done chapter is a no-op.
	CompleteChapter(ctx context.Context, userID, courseID, chapterID string) (*model.Certificate, error)
	Certificates(ctx context.Context, userID string) ([]*model.Certificate, error)
}

type courseUC struct {
	txm     repository.TransactionManager
	courses repository.CourseRepository
	certs   repository.CertificateRepository
	users   repository.UserRepository
	signer  config.CertificateConfig
	log     *zerolog.Logger
	now     func() time.Time
}

func NewCourseUseCase(txm repository.TransactionManager, courses repository.CourseRepository, certs repository.CertificateRepository, users repository.UserRepository, signer config.CertificateConfig, log *zerolog.Logger) *courseUC {
	return &courseUC{txm: txm, courses: courses, certs: certs, users: users, signer: signer, log: log, now: time.Now}
}

func (u *courseUC) Catalog(ctx context.Context, offset, limit int) ([]*model.Course, error) {
	return u.courses.ListPublished(ctx, repository.NoTX, offset, limit)
}

func (u *courseUC) Get(ctx context.Context, slug string) (*model.Course, error) {
	return u.courses.FindBySlug(ctx, repository.NoTX, slug)
}

func (u *courseUC) CanAccess(ctx context.Context, userID, courseID string) (bool, error) {
	course, err := u.courses.FindByID(ctx, repository.NoTX, courseID)
	if err != nil {
		return false, err
	}
	if !course.Premium {
		return true, nil
	}

	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return false, err
	}
	if user.SubscriptionActive && user.SubscriberUntil != nil && user.SubscriberUntil.After(u.now()) {
		return true, nil
	}
	return u.courses.HasGrant(ctx, repository.NoTX, userID, courseID)
}

func (u *courseUC) CompleteChapter(ctx context.Context, userID, courseID, chapterID string) (*model.Certificate, error) {
	defer logging.TraceDuration(u.log, "CourseUC.CompleteChapter")()

	ok, err := u.CanAccess(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNoActiveSubscription
	}

	course, err := u.courses.FindByID(ctx, repository.NoTX, courseID)
	if err != nil {
		return nil, err
	}
	if !chapterOf(course, chapterID) {
		return nil, fmt.Errorf("%w: chapter %s not in course %s", domain.ErrInvalidArgument, chapterID, courseID)
	}

	now := u.now().UTC()
	var cert *model.Certificate

	err = u.txm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		cert = nil
		if err := u.txm.LockUser(ctx, tx, userID); err != nil {
			return err
		}

		progress := &model.ChapterProgress{UserID: userID, CourseID: courseID, ChapterID: chapterID, CompletedAt: now}
		if err := u.courses.SaveProgress(ctx, tx, progress); err != nil {
			return err
		}

		done, err := u.courses.CompletedChapters(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if !allChaptersDone(course, done) {
			return nil
		}

		// Course finished. The certificate is issued once per (user, course).
		if existing, err := u.certs.FindByUserAndCourse(ctx, tx, userID, courseID); err == nil {
			cert = existing
			return nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		id := uuid.NewString()
		cert = &model.Certificate{
			ID:         id,
			UserID:     userID,
			CourseID:   courseID,
			Serial:     model.CertificateSerial(now, id),
			SignerName: u.signer.SignerName,
			SignerRole: u.signer.SignerRole,
			IssuedAt:   now,
		}
		return u.certs.Save(ctx, tx, cert)
	})
	if err != nil {
		return nil, err
	}

	if cert != nil {
		u.log.Info().Str("user_id", userID).Str("course_id", courseID).
			Str("serial", cert.Serial).Msg("certificate issued")
	}
	return cert, nil
}

func (u *courseUC) Certificates(ctx context.Context, userID string) ([]*model.Certificate, error) {
	return u.certs.ListByUser(ctx, repository.NoTX, userID)
}

func chapterOf(c *model.Course, chapterID string) bool {
	for _, ch := range c.Chapters {
		if ch.ID == chapterID {
			return true
		}
	}
	return false
}

func allChaptersDone(c *model.Course, done []string) bool {
	if len(c.Chapters) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(done))
	for _, id := range done {
		set[id] = struct{}{}
	}
	for _, ch := range c.Chapters {
		if _, ok := set[ch.ID]; !ok {
			return false
		}
	}
	return true
}
