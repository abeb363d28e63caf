package repositories

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicatePhone = errors.New("phone number already registered")
	// ErrResetUnavailable: the pinned reset row is gone, consumed or expired.
	ErrResetUnavailable = errors.New("reset request expired or already used")
)

const (
	constraintUsersEmail = "users_email_key"
	constraintUsersPhone = "users_phone_number_key"
)

// mapPGError turns driver errors into repository sentinels where one exists.
func mapPGError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
		switch pqErr.Constraint {
		case constraintUsersEmail:
			return ErrDuplicateEmail
		case constraintUsersPhone:
			return ErrDuplicatePhone
		}
	}
	return err
}
