package repository

import (
	"context"

	"openlearn-backend/internal/domain/model"
)

type AssignmentRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Assignment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Assignment, error)
	ListByCourse(ctx context.Context, tx Tx, courseID string) ([]*model.Assignment, error)
}

type SubmissionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.Submission) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Submission, error)
	FindByAssignmentAndUser(ctx context.Context, tx Tx, assignmentID, userID string) (*model.Submission, error)
	ListPendingReview(ctx context.Context, tx Tx, offset, limit int) ([]*model.Submission, error)
}
