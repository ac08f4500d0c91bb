package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

var cols = []string{"id", "name", "email", "password_hash", "status", "created_at", "updated_at"}

func TestPostgres_FindByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("user@x.com").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "Ada", "user@x.com", "$2a$hash", "customer", now, now))

	u, err := repo.FindByEmail(context.Background(), "user@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, StatusCustomer, u.Status)
	assert.Equal(t, "$2a$hash", u.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgres_Create_UniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), User{ID: "u1", Name: "Ada", Email: "user@x.com", PasswordHash: "h", Status: StatusCustomer, CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestPostgres_Update_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), User{ID: "u1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgres_Delete_ReturnsRow(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "Ada", "user@x.com", "h", "admin", now, now))

	u, err := repo.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusAdmin, u.Status)
}

func TestPostgres_WrapsDriverErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).WillReturnError(boom)

	_, err := repo.FindByID(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgres_MalformedIDIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	badID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "nobody"`}

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs("nobody").
		WillReturnError(badID)
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs("nobody").
		WillReturnError(badID)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WillReturnError(badID)

	_, err := repo.FindByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Delete(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update(context.Background(), User{ID: "nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
