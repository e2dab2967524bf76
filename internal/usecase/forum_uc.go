package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ ForumUseCase = (*forumUC)(nil)

type ForumUseCase interface {
	CreateThread(ctx context.Context, courseID, authorID, title, body string) (*model.ForumThread, error)
	Threads(ctx context.Context, courseID string, offset, limit int) ([]*model.ForumThread, error)
	Thread(ctx context.Context, threadID string) (*model.ForumThread, []*model.ForumReply, error)
	Reply(ctx context.Context, threadID, authorID, body string) (*model.ForumReply, error)
	// DeleteThread is allowed for the author or an admin.
	DeleteThread(ctx context.Context, threadID, callerID string, callerIsAdmin bool) error
}

type forumUC struct {
	forum repository.ForumRepository
	log   *zerolog.Logger
	now   func() time.Time
}

func NewForumUseCase(forum repository.ForumRepository, log *zerolog.Logger) *forumUC {
	return &forumUC{forum: forum, log: log, now: time.Now}
}

func (u *forumUC) CreateThread(ctx context.Context, courseID, authorID, title, body string) (*model.ForumThread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", domain.ErrInvalidArgument)
	}

	now := u.now()
	t := &model.ForumThread{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.forum.SaveThread(ctx, repository.NoTX, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *forumUC) Threads(ctx context.Context, courseID string, offset, limit int) ([]*model.ForumThread, error) {
	return u.forum.ListThreads(ctx, repository.NoTX, courseID, offset, limit)
}

func (u *forumUC) Thread(ctx context.Context, threadID string) (*model.ForumThread, []*model.ForumReply, error) {
	t, err := u.forum.FindThread(ctx, repository.NoTX, threadID)
	if err != nil {
		return nil, nil, err
	}
	replies, err := u.forum.ListReplies(ctx, repository.NoTX, threadID)
	if err != nil {
		return nil, nil, err
	}
	return t, replies, nil
}

func (u *forumUC) Reply(ctx context.Context, threadID, authorID, body string) (*model.ForumReply, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: empty body", domain.ErrInvalidArgument)
	}
	t, err := u.forum.FindThread(ctx, repository.NoTX, threadID)
	if err != nil {
		return nil, err
	}

	r := &model.ForumReply{
		ID:        uuid.NewString(),
		ThreadID:  t.ID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: u.now(),
	}
	if err := u.forum.SaveReply(ctx, repository.NoTX, r); err != nil {
		return nil, err
	}

	t.UpdatedAt = r.CreatedAt
	if err := u.forum.SaveThread(ctx, repository.NoTX, t); err != nil {
		u.log.Warn().Err(err).Str("thread_id", t.ID).Msg("thread bump failed")
	}
	return r, nil
}

func (u *forumUC) DeleteThread(ctx context.Context, threadID, callerID string, callerIsAdmin bool) error {
	t, err := u.forum.FindThread(ctx, repository.NoTX, threadID)
	if err != nil {
		return err
	}
	if t.AuthorID != callerID && !callerIsAdmin {
		return domain.ErrForbidden
	}
	return u.forum.DeleteThread(ctx, repository.NoTX, threadID)
}
