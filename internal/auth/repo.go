package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/2beens/guildsite/internal/db"
)

var _ AdminStore = (*AdminRepo)(nil)
var _ AdminStore = (*repoMock)(nil)

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{
		db: db,
	}
}

func (r *AdminRepo) Create(ctx context.Context, admin *Admin) (*Admin, error) {
	if admin.Email == "" || admin.Name == "" || admin.PasswordHash == "" {
		return nil, errors.New("admin email, name or password hash empty")
	}
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := r.db.Exec(
		ctx,
		`INSERT INTO admin (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5);`,
		admin.ID, admin.Email, admin.Name, admin.PasswordHash, now,
	)
	if err != nil {
		if db.IsUniqueViolationError(err) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("insert admin: %w", err)
	}

	admin.CreatedAt = now
	admin.UpdatedAt = now
	return admin, nil
}

func (r *AdminRepo) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrAdminNotFound
	}
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *AdminRepo) FindByID(ctx context.Context, id string) (*Admin, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAdminNotFound
	}
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *AdminRepo) findOne(ctx context.Context, where string, arg any) (*Admin, error) {
	var admin Admin
	err := r.db.QueryRow(
		ctx,
		`SELECT id::text, email, name, password_hash, created_at, updated_at FROM admin `+where+`;`,
		arg,
	).Scan(&admin.ID, &admin.Email, &admin.Name, &admin.PasswordHash, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// UpdatePassword swaps the stored hash in a single statement.
func (r *AdminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if passwordHash == "" {
		return errors.New("password hash empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrAdminNotFound
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE admin SET password_hash = $1, updated_at = NOW() WHERE id = $2;`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminNotFound
	}
	return nil
}
