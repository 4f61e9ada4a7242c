package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `id::text, name, email, phone, subject, message, status, created_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, fb *Feedback) (*Feedback, error) {
	if fb.Name == "" || fb.Email == "" || fb.Subject == "" || fb.Message == "" {
		return nil, errors.New("feedback name, email, subject or message empty")
	}

	fb.ID = uuid.NewString()
	if fb.Status == "" {
		fb.Status = StatusUnread
	}
	now := time.Now()
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = now
	}
	fb.UpdatedAt = now

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO feedback (id, name, email, phone, subject, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		fb.ID, fb.Name, fb.Email, fb.Phone, fb.Subject, fb.Message, string(fb.Status), fb.CreatedAt, fb.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}

	return fb, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Feedback, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrFeedbackNotFound
	}

	fb, err := scanFeedback(r.db.QueryRow(
		ctx,
		`SELECT `+selectColumns+` FROM feedback WHERE id = $1;`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return fb, nil
}

// List returns feedback newest first, all of it when status is empty.
func (r *Repo) List(ctx context.Context, status Status) ([]Feedback, error) {
	query := `SELECT ` + selectColumns + ` FROM feedback`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedbacks := make([]Feedback, 0)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		feedbacks = append(feedbacks, *fb)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return feedbacks, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) (*Feedback, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid feedback status: %q", status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrFeedbackNotFound
	}

	fb, err := scanFeedback(r.db.QueryRow(
		ctx,
		`UPDATE feedback SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+selectColumns+`;`,
		string(status), id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return fb, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrFeedbackNotFound
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM feedback WHERE id = $1;`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}

	return nil
}

func scanFeedback(row pgx.Row) (*Feedback, error) {
	var fb Feedback
	var status string
	if err := row.Scan(
		&fb.ID, &fb.Name, &fb.Email, &fb.Phone, &fb.Subject, &fb.Message,
		&status, &fb.CreatedAt, &fb.UpdatedAt,
	); err != nil {
		return nil, err
	}
	fb.Status = Status(status)
	return &fb, nil
}
