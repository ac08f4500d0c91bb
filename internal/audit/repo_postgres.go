package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends to auth_events (migrations/00002_auth_events.sql).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO auth_events (id, type, user_id, email, ip_address, message, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Type,
		nullIfEmpty(e.UserID),
		nullIfEmpty(e.Email),
		nullIfEmpty(e.IPAddress),
		e.Message,
		e.CreatedAt,
	)
	return err
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
