package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
)

var _ repository.ForumRepository = (*forumRepo)(nil)

type forumRepo struct{ pool *pgxpool.Pool }

func NewForumRepo(pool *pgxpool.Pool) *forumRepo {
	return &forumRepo{pool: pool}
}

func (r *forumRepo) SaveThread(ctx context.Context, tx repository.Tx, t *model.ForumThread) error {
	const q = `
INSERT INTO forum_threads (id, course_id, author_id, title, body, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET title=$4, body=$5, updated_at=$7;`
	if _, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.CourseID, t.AuthorID, t.Title, t.Body, t.CreatedAt, t.UpdatedAt); err != nil {
		return fmt.Errorf("save thread: %w", err)
	}
	return nil
}

func (r *forumRepo) FindThread(ctx context.Context, tx repository.Tx, id string) (*model.ForumThread, error) {
	const q = `SELECT id, course_id, author_id, title, body, created_at, updated_at FROM forum_threads WHERE id=$1`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var t model.ForumThread
	if err := row.Scan(&t.ID, &t.CourseID, &t.AuthorID, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &t, nil
}

func (r *forumRepo) ListThreads(ctx context.Context, tx repository.Tx, courseID string, offset, limit int) ([]*model.ForumThread, error) {
	const q = `SELECT id, course_id, author_id, title, body, created_at, updated_at
FROM forum_threads WHERE course_id=$1 ORDER BY updated_at DESC OFFSET $2 LIMIT $3`
	rows, err := queryRows(ctx, r.pool, tx, q, courseID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ForumThread
	for rows.Next() {
		var t model.ForumThread
		if err := rows.Scan(&t.ID, &t.CourseID, &t.AuthorID, &t.Title, &t.Body, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *forumRepo) DeleteThread(ctx context.Context, tx repository.Tx, id string) error {
	if _, err := execSQL(ctx, r.pool, tx, `DELETE FROM forum_replies WHERE thread_id=$1;`, id); err != nil {
		return fmt.Errorf("delete thread replies: %w", err)
	}
	if _, err := execSQL(ctx, r.pool, tx, `DELETE FROM forum_threads WHERE id=$1;`, id); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	return nil
}

func (r *forumRepo) SaveReply(ctx context.Context, tx repository.Tx, reply *model.ForumReply) error {
	const q = `
INSERT INTO forum_replies (id, thread_id, author_id, body, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET body=$4;`
	if _, err := execSQL(ctx, r.pool, tx, q,
		reply.ID, reply.ThreadID, reply.AuthorID, reply.Body, reply.CreatedAt); err != nil {
		return fmt.Errorf("save reply: %w", err)
	}
	return nil
}

func (r *forumRepo) ListReplies(ctx context.Context, tx repository.Tx, threadID string) ([]*model.ForumReply, error) {
	const q = `SELECT id, thread_id, author_id, body, created_at
FROM forum_replies WHERE thread_id=$1 ORDER BY created_at ASC`
	rows, err := queryRows(ctx, r.pool, tx, q, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ForumReply
	for rows.Next() {
		var reply model.ForumReply
		if err := rows.Scan(&reply.ID, &reply.ThreadID, &reply.AuthorID, &reply.Body, &reply.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &reply)
	}
	return out, rows.Err()
}

func (r *forumRepo) DeleteReply(ctx context.Context, tx repository.Tx, id string) error {
	if _, err := execSQL(ctx, r.pool, tx, `DELETE FROM forum_replies WHERE id=$1;`, id); err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}
	return nil
}
