package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// NOTE: This repository assumes the users table from migrations/00001_users.sql,
// including UNIQUE (email).

const (
	uniqueViolation = "23505"
	// A malformed id can never match a UUID key.
	invalidTextRepresentation = "22P02"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, status, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, u User) (User, error) {
	const q = `
INSERT INTO users (id, name, email, password_hash, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING ` + userColumns

	out, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Status,
		u.CreatedAt,
		u.UpdatedAt,
	))
	if err != nil {
		return User{}, mapWriteErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(ctx, q, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(ctx, q, id)
}

func (r *PostgresRepository) Update(ctx context.Context, u User) (User, error) {
	const q = `
UPDATE users
SET name = $2, email = $3, password_hash = $4, status = $5, updated_at = $6
WHERE id = $1
RETURNING ` + userColumns

	out, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Status,
		u.UpdatedAt,
	))
	if err != nil {
		return User{}, mapWriteErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (User, error) {
	const q = `DELETE FROM users WHERE id = $1 RETURNING ` + userColumns
	return r.findOne(ctx, q, id)
}

func (r *PostgresRepository) findOne(ctx context.Context, q string, arg string) (User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isPgCode(err, invalidTextRepresentation) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Status,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func mapWriteErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) || isPgCode(err, invalidTextRepresentation) {
		return ErrNotFound
	}
	if isPgCode(err, uniqueViolation) {
		return ErrEmailTaken
	}
	return fmt.Errorf("db error: %w", err)
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
