package repository

import (
	"context"

	"openlearn-backend/internal/domain/model"
)

type ForumRepository interface {
	SaveThread(ctx context.Context, tx Tx, t *model.ForumThread) error
	FindThread(ctx context.Context, tx Tx, id string) (*model.ForumThread, error)
	ListThreads(ctx context.Context, tx Tx, courseID string, offset, limit int) ([]*model.ForumThread, error)
	DeleteThread(ctx context.Context, tx Tx, id string) error

	SaveReply(ctx context.Context, tx Tx, r *model.ForumReply) error
	ListReplies(ctx context.Context, tx Tx, threadID string) ([]*model.ForumReply, error)
	DeleteReply(ctx context.Context, tx Tx, id string) error
}
