package repository

import (
	"context"

	"openlearn-backend/internal/domain/model"
)

type CourseRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Course) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Course, error)
	FindBySlug(ctx context.Context, tx Tx, slug string) (*model.Course, error)
	ListPublished(ctx context.Context, tx Tx, offset, limit int) ([]*model.Course, error)

	SaveProgress(ctx context.Context, tx Tx, p *model.ChapterProgress) error
	// CompletedChapters returns the ids of chapters the user finished in the course.
	CompletedChapters(ctx context.Context, tx Tx, userID, courseID string) ([]string, error)

	SaveGrant(ctx context.Context, tx Tx, g *model.CourseGrant) error
	HasGrant(ctx context.Context, tx Tx, userID, courseID string) (bool, error)
}

type CertificateRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Certificate) error
	FindByUserAndCourse(ctx context.Context, tx Tx, userID, courseID string) (*model.Certificate, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Certificate, error)
}
