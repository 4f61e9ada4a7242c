package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS admin
(
    id            UUID PRIMARY KEY,
    email         VARCHAR     NOT NULL UNIQUE,
    name          VARCHAR     NOT NULL,
    password_hash VARCHAR     NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS membership_application
(
    id                  UUID PRIMARY KEY,
    full_name           VARCHAR     NOT NULL,
    email               VARCHAR     NOT NULL,
    phone               VARCHAR     NOT NULL DEFAULT '',
    date_of_birth       VARCHAR     NOT NULL DEFAULT '',
    address             VARCHAR     NOT NULL DEFAULT '',
    city                VARCHAR     NOT NULL DEFAULT '',
    state               VARCHAR     NOT NULL DEFAULT '',
    zip_code            VARCHAR     NOT NULL DEFAULT '',
    membership_type     VARCHAR     NOT NULL,
    specialization      VARCHAR,
    license_number      VARCHAR,
    years_of_experience VARCHAR,
    medical_school      VARCHAR,
    status              VARCHAR     NOT NULL DEFAULT 'pending',
    submitted_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS ix_membership_application_submitted_at
    ON membership_application USING btree (submitted_at);
CREATE INDEX IF NOT EXISTS ix_membership_application_status
    ON membership_application (status);

CREATE TABLE IF NOT EXISTS feedback
(
    id         UUID PRIMARY KEY,
    name       VARCHAR     NOT NULL,
    email      VARCHAR     NOT NULL,
    phone      VARCHAR,
    subject    VARCHAR     NOT NULL,
    message    TEXT        NOT NULL,
    status     VARCHAR     NOT NULL DEFAULT 'unread',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS ix_feedback_created_at
    ON feedback USING btree (created_at);
CREATE INDEX IF NOT EXISTS ix_feedback_status
    ON feedback (status);
`

// EnsureSchema creates the guild tables and indexes if they are missing.
// Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
