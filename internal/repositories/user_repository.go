package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"luxera/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	List(ctx context.Context, f models.UserFilter) ([]*models.User, error)

	UpdatePassword(ctx context.Context, userID int64, hash string) error
	SetRole(ctx context.Context, userID int64, role string) error
	SetDeleted(ctx context.Context, userID int64, deleted bool) error

	// refresh helpers; tokens are stored hashed
	UpdateRefresh(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	RotateRefresh(ctx context.Context, oldHash, newHash string, newExpiresAt, now time.Time) (*models.User, error)
	ClearRefresh(ctx context.Context, userID int64) error
}

const userColumns = `
	id, username, email, phone_number, password_hash, role, gender, is_deleted,
	refresh_token, refresh_expires_at, refresh_revoked, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (username, email, phone_number, password_hash, role, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, q,
		user.Username,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.Gender,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE phone_number = $1 LIMIT 1`, phone)
}

func (r *userRepository) getOne(ctx context.Context, q string, arg any) (*models.User, error) {
	u := &models.User{}
	if err := r.db.GetContext(ctx, u, q, arg); err != nil {
		return nil, mapPGError(err)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, f models.UserFilter) ([]*models.User, error) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	b := sq.Select(userColumns).
		From("users").
		OrderBy("id").
		Limit(uint64(limit)).
		Offset(uint64(max(f.Offset, 0))).
		PlaceholderFormat(sq.Dollar)
	if f.Role != "" {
		b = b.Where(sq.Eq{"role": f.Role})
	}
	if f.Deleted != nil {
		b = b.Where(sq.Eq{"is_deleted": *f.Deleted})
	}

	q, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build users query: %w", err)
	}
	var res []*models.User
	if err := r.db.SelectContext(ctx, &res, q, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	const q = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`
	return r.execOne(ctx, q, hash, userID)
}

func (r *userRepository) SetRole(ctx context.Context, userID int64, role string) error {
	const q = `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	return r.execOne(ctx, q, role, userID)
}

func (r *userRepository) SetDeleted(ctx context.Context, userID int64, deleted bool) error {
	const q = `UPDATE users SET is_deleted = $1, updated_at = NOW() WHERE id = $2`
	return r.execOne(ctx, q, deleted, userID)
}

func (r *userRepository) execOne(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ===== refresh helpers =====

func (r *userRepository) UpdateRefresh(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	const q = `
		UPDATE users
		SET refresh_token = $1, refresh_expires_at = $2, refresh_revoked = FALSE
		WHERE id = $3
	`
	return r.execOne(ctx, q, tokenHash, expiresAt, userID)
}

// RotateRefresh swaps a live refresh token for a new one and returns the
// owner. Expired, revoked or unknown tokens give ErrNotFound.
func (r *userRepository) RotateRefresh(ctx context.Context, oldHash, newHash string, newExpiresAt, now time.Time) (*models.User, error) {
	q := `
		UPDATE users
		SET refresh_token = $1, refresh_expires_at = $2, refresh_revoked = FALSE
		WHERE refresh_token = $3
		  AND refresh_revoked = FALSE
		  AND refresh_expires_at > $4
		  AND is_deleted = FALSE
		RETURNING` + userColumns
	u := &models.User{}
	if err := r.db.GetContext(ctx, u, q, newHash, newExpiresAt, oldHash, now); err != nil {
		return nil, mapPGError(err)
	}
	return u, nil
}

func (r *userRepository) ClearRefresh(ctx context.Context, userID int64) error {
	const q = `
		UPDATE users
		SET refresh_token = NULL, refresh_expires_at = NULL, refresh_revoked = TRUE
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}
