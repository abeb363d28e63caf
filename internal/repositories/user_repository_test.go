package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxera/internal/models"
)

func TestUserCreate_Success(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	u := &models.User{Username: "Aina", Email: "aina@x.com", Phone: "+60123456789", PasswordHash: "h", Role: "member", Gender: "Female"}
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Aina", "aina@x.com", "+60123456789", "h", "member", "Female").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(5), u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{constraint: "users_email_key", want: ErrDuplicateEmail},
		{constraint: "users_phone_number_key", want: ErrDuplicatePhone},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepository(db)

			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation), Constraint: tt.constraint})

			err := repo.Create(context.Background(), &models.User{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserCreate_OtherError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("INSERT INTO users").WillReturnError(errors.New("db network error"))

	err := repo.Create(context.Background(), &models.User{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery("FROM users WHERE email = \\$1").
		WithArgs("aina@x.com").
		WillReturnRows(userRow(3, "aina@x.com", now))

	u, err := repo.GetByEmail(context.Background(), "aina@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "+60123456789", u.Phone)
	assert.Nil(t, u.RefreshToken)
}

func TestUserGetByPhone_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE phone_number = \\$1").
		WithArgs("+60111111111").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.GetByPhone(context.Background(), "+60111111111")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserList_Filters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	deleted := false

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = $1 AND is_deleted = $2 ORDER BY id LIMIT 10 OFFSET 20")).
		WithArgs("blocked", false).
		WillReturnRows(userRow(1, "a@x.com", time.Now()))

	got, err := repo.List(context.Background(), models.UserFilter{Role: "blocked", Deleted: &deleted, Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserSetRole_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET role").
		WithArgs("blocked", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.SetRole(context.Background(), 99, "blocked"), ErrNotFound)
}

func TestUserRotateRefresh(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()
	exp := now.Add(time.Hour)

	mock.ExpectQuery("UPDATE users").
		WithArgs("new", exp, "old", now).
		WillReturnRows(userRow(8, "r@x.com", now))

	u, err := repo.RotateRefresh(context.Background(), "old", "new", exp, now)
	require.NoError(t, err)
	assert.Equal(t, int64(8), u.ID)

	mock.ExpectQuery("UPDATE users").
		WillReturnRows(sqlmock.NewRows(userCols))
	_, err = repo.RotateRefresh(context.Background(), "stale", "new2", exp, now)
	assert.ErrorIs(t, err, ErrNotFound)
}
