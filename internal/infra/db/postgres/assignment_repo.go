package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"openlearn-backend/internal/domain"
	"openlearn-backend/internal/domain/model"
	"openlearn-backend/internal/domain/ports/repository"
)

var _ repository.AssignmentRepository = (*assignmentRepo)(nil)

type assignmentRepo struct{ pool *pgxpool.Pool }

func NewAssignmentRepo(pool *pgxpool.Pool) *assignmentRepo {
	return &assignmentRepo{pool: pool}
}

const assignmentColumns = `id, course_id, title, type, points, auto_grading, questions, created_at`

func (r *assignmentRepo) Save(ctx context.Context, tx repository.Tx, a *model.Assignment) error {
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	const q = `
INSERT INTO assignments (id, course_id, title, type, points, auto_grading, questions, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  title=$3, type=$4, points=$5, auto_grading=$6, questions=$7;`

	if _, err := execSQL(ctx, r.pool, tx, q,
		a.ID, a.CourseID, a.Title, a.Type, a.Points, a.AutoGrading, questions, a.CreatedAt); err != nil {
		return fmt.Errorf("save assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Assignment, error) {
	q := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id=$1`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanAssignment(row)
}

func (r *assignmentRepo) ListByCourse(ctx context.Context, tx repository.Tx, courseID string) ([]*model.Assignment, error) {
	q := `SELECT ` + assignmentColumns + ` FROM assignments WHERE course_id=$1 ORDER BY created_at ASC`
	rows, err := queryRows(ctx, r.pool, tx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	var (
		a         model.Assignment
		questions []byte
	)
	if err := row.Scan(&a.ID, &a.CourseID, &a.Title, &a.Type, &a.Points, &a.AutoGrading,
		&questions, &a.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &a.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	}
	return &a, nil
}

var _ repository.SubmissionRepository = (*submissionRepo)(nil)

type submissionRepo struct{ pool *pgxpool.Pool }

func NewSubmissionRepo(pool *pgxpool.Pool) *submissionRepo {
	return &submissionRepo{pool: pool}
}

const submissionColumns = `id, assignment_id, user_id, status, awarded_points, answers, submitted_at, reviewed_at, reviewed_by`

func (r *submissionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Submission) error {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	const q = `
INSERT INTO submissions (id, assignment_id, user_id, status, awarded_points, answers, submitted_at, reviewed_at, reviewed_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (assignment_id, user_id) DO UPDATE SET
  status=$4, awarded_points=$5, answers=$6, submitted_at=$7, reviewed_at=$8, reviewed_by=$9;`

	if _, err := execSQL(ctx, r.pool, tx, q,
		s.ID, s.AssignmentID, s.UserID, s.Status, s.AwardedPoints, answers,
		s.SubmittedAt, s.ReviewedAt, s.ReviewedBy); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Submission, error) {
	q := `SELECT ` + submissionColumns + ` FROM submissions WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanSubmission(row)
}

func (r *submissionRepo) FindByAssignmentAndUser(ctx context.Context, tx repository.Tx, assignmentID, userID string) (*model.Submission, error) {
	q := `SELECT ` + submissionColumns + ` FROM submissions WHERE assignment_id=$1 AND user_id=$2`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	row, err := pickRow(ctx, r.pool, tx, q, assignmentID, userID)
	if err != nil {
		return nil, err
	}
	return scanSubmission(row)
}

func (r *submissionRepo) ListPendingReview(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Submission, error) {
	q := `SELECT ` + submissionColumns + ` FROM submissions WHERE status IN ('submitted','needs_correction') ORDER BY submitted_at ASC OFFSET $1 LIMIT $2`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSubmission(row pgx.Row) (*model.Submission, error) {
	var (
		s       model.Submission
		answers []byte
	)
	if err := row.Scan(&s.ID, &s.AssignmentID, &s.UserID, &s.Status, &s.AwardedPoints,
		&answers, &s.SubmittedAt, &s.ReviewedAt, &s.ReviewedBy); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	return &s, nil
}
