package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var userCols = []string{
	"id", "username", "email", "phone_number", "password_hash", "role", "gender", "is_deleted",
	"refresh_token", "refresh_expires_at", "refresh_revoked", "created_at", "updated_at",
}

func userRow(id int64, email string, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(
		id, "Aina", email, "+60123456789", "$2a$10$hash", "member", "Female", false,
		nil, nil, false, now, now,
	)
}

var resetCols = []string{"id", "user_id", "method", "token_hash", "expires_at", "created_at", "verified_at", "used_at"}
