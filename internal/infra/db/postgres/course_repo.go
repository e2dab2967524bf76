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

var _ repository.CourseRepository = (*courseRepo)(nil)

type courseRepo struct{ pool *pgxpool.Pool }

func NewCourseRepo(pool *pgxpool.Pool) *courseRepo {
	return &courseRepo{pool: pool}
}

const courseColumns = `id, slug, title, description, price_idr, premium, published, chapters, created_at, updated_at`

func (r *courseRepo) Save(ctx context.Context, tx repository.Tx, c *model.Course) error {
	chapters, err := json.Marshal(c.Chapters)
	if err != nil {
		return fmt.Errorf("encode chapters: %w", err)
	}
	const q = `
INSERT INTO courses (id, slug, title, description, price_idr, premium, published, chapters, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  slug=$2, title=$3, description=$4, price_idr=$5, premium=$6, published=$7, chapters=$8, updated_at=$10;`

	if _, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.Slug, c.Title, c.Description, c.PriceIDR, c.Premium, c.Published, chapters,
		c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("save course: %w", err)
	}
	return nil
}

func (r *courseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses WHERE id=$1`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanCourse(row)
}

func (r *courseRepo) FindBySlug(ctx context.Context, tx repository.Tx, slug string) (*model.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses WHERE slug=$1`
	row, err := pickRow(ctx, r.pool, tx, q, slug)
	if err != nil {
		return nil, err
	}
	return scanCourse(row)
}

func (r *courseRepo) ListPublished(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses WHERE published ORDER BY created_at DESC OFFSET $1 LIMIT $2`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCourse(row pgx.Row) (*model.Course, error) {
	var (
		c        model.Course
		chapters []byte
	)
	if err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.PriceIDR, &c.Premium,
		&c.Published, &chapters, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if len(chapters) > 0 {
		if err := json.Unmarshal(chapters, &c.Chapters); err != nil {
			return nil, fmt.Errorf("decode chapters: %w", err)
		}
	}
	return &c, nil
}

func (r *courseRepo) SaveProgress(ctx context.Context, tx repository.Tx, p *model.ChapterProgress) error {
	const q = `
INSERT INTO chapter_progress (user_id, course_id, chapter_id, completed_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, chapter_id) DO NOTHING;`
	if _, err := execSQL(ctx, r.pool, tx, q, p.UserID, p.CourseID, p.ChapterID, p.CompletedAt); err != nil {
		return fmt.Errorf("save chapter progress: %w", err)
	}
	return nil
}

func (r *courseRepo) CompletedChapters(ctx context.Context, tx repository.Tx, userID, courseID string) ([]string, error) {
	const q = `SELECT chapter_id FROM chapter_progress WHERE user_id=$1 AND course_id=$2`
	rows, err := queryRows(ctx, r.pool, tx, q, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *courseRepo) SaveGrant(ctx context.Context, tx repository.Tx, g *model.CourseGrant) error {
	const q = `
INSERT INTO course_grants (user_id, course_id, request_id, granted_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, course_id) DO NOTHING;`
	if _, err := execSQL(ctx, r.pool, tx, q, g.UserID, g.CourseID, g.RequestID, g.GrantedAt); err != nil {
		return fmt.Errorf("save course grant: %w", err)
	}
	return nil
}

func (r *courseRepo) HasGrant(ctx context.Context, tx repository.Tx, userID, courseID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM course_grants WHERE user_id=$1 AND course_id=$2)`
	row, err := pickRow(ctx, r.pool, tx, q, userID, courseID)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return ok, nil
}

var _ repository.CertificateRepository = (*certificateRepo)(nil)

type certificateRepo struct{ pool *pgxpool.Pool }

func NewCertificateRepo(pool *pgxpool.Pool) *certificateRepo {
	return &certificateRepo{pool: pool}
}

const certificateColumns = `id, user_id, course_id, serial, signer_name, signer_role, issued_at`

func (r *certificateRepo) Save(ctx context.Context, tx repository.Tx, c *model.Certificate) error {
	const q = `
INSERT INTO certificates (id, user_id, course_id, serial, signer_name, signer_role, issued_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (user_id, course_id) DO NOTHING;`
	if _, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.UserID, c.CourseID, c.Serial, c.SignerName, c.SignerRole, c.IssuedAt); err != nil {
		return fmt.Errorf("save certificate: %w", err)
	}
	return nil
}

func (r *certificateRepo) FindByUserAndCourse(ctx context.Context, tx repository.Tx, userID, courseID string) (*model.Certificate, error) {
	q := `SELECT ` + certificateColumns + ` FROM certificates WHERE user_id=$1 AND course_id=$2`
	row, err := pickRow(ctx, r.pool, tx, q, userID, courseID)
	if err != nil {
		return nil, err
	}
	return scanCertificate(row)
}

func (r *certificateRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Certificate, error) {
	q := `SELECT ` + certificateColumns + ` FROM certificates WHERE user_id=$1 ORDER BY issued_at DESC`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Certificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCertificate(row pgx.Row) (*model.Certificate, error) {
	var c model.Certificate
	if err := row.Scan(&c.ID, &c.UserID, &c.CourseID, &c.Serial, &c.SignerName, &c.SignerRole, &c.IssuedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}
