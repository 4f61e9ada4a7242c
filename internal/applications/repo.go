package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `id::text, full_name, email, phone, date_of_birth, address, city, state, zip_code,
	membership_type, specialization, license_number, years_of_experience, medical_school,
	status, submitted_at, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, app *Application) (*Application, error) {
	if app.FullName == "" || app.Email == "" || app.MembershipType == "" {
		return nil, errors.New("application name, email or membership type empty")
	}

	app.ID = uuid.NewString()
	if app.Status == "" {
		app.Status = StatusPending
	}
	now := time.Now()
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = now
	}
	app.UpdatedAt = now

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO membership_application (
			id, full_name, email, phone, date_of_birth, address, city, state, zip_code,
			membership_type, specialization, license_number, years_of_experience, medical_school,
			status, submitted_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		app.ID, app.FullName, app.Email, app.Phone, app.DateOfBirth, app.Address, app.City, app.State, app.ZipCode,
		app.MembershipType, app.Specialization, app.LicenseNumber, app.YearsOfExperience, app.MedicalSchool,
		string(app.Status), app.SubmittedAt, app.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}

	return app, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*Application, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrApplicationNotFound
	}

	row := r.db.QueryRow(
		ctx,
		`SELECT `+selectColumns+` FROM membership_application WHERE id = $1;`,
		id,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// List returns applications newest first, all of them when status is empty.
func (r *Repo) List(ctx context.Context, status Status) ([]Application, error) {
	query := `SELECT ` + selectColumns + ` FROM membership_application`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY submitted_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		apps = append(apps, *app)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) (*Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid application status: %q", status)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrApplicationNotFound
	}

	row := r.db.QueryRow(
		ctx,
		`UPDATE membership_application SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+selectColumns+`;`,
		string(status), id,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrApplicationNotFound
	}

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM membership_application WHERE id = $1;`,
		id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}

	return nil
}

func scanApplication(row pgx.Row) (*Application, error) {
	var app Application
	var status string
	if err := row.Scan(
		&app.ID, &app.FullName, &app.Email, &app.Phone, &app.DateOfBirth,
		&app.Address, &app.City, &app.State, &app.ZipCode,
		&app.MembershipType, &app.Specialization, &app.LicenseNumber, &app.YearsOfExperience, &app.MedicalSchool,
		&status, &app.SubmittedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	app.Status = Status(status)
	return &app, nil
}
