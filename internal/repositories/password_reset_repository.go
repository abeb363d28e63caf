package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"luxera/internal/models"
)

type PasswordResetRepository interface {
	// IssueIfCooledDown inserts a new reset row unless one for the same
	// account and method was created within cooldown of now. issued is false
	// when the cooldown withheld the insert.
	IssueIfCooledDown(ctx context.Context, userID int64, method models.ResetMethod, tokenHash string, now, expiresAt time.Time, cooldown time.Duration) (pr *models.PasswordReset, issued bool, err error)
	GetLatestUnused(ctx context.Context, userID int64, method models.ResetMethod) (*models.PasswordReset, error)
	// MarkVerified sets verified_at once; false means the row was already
	// verified, consumed or does not exist.
	MarkVerified(ctx context.Context, id int64, now time.Time) (bool, error)
	GetPinned(ctx context.Context, id, userID int64, method models.ResetMethod) (*models.PasswordReset, error)
	// CompleteReset rewrites the credential and consumes the pinned row in
	// one transaction.
	CompleteReset(ctx context.Context, resetID, userID int64, method models.ResetMethod, passwordHash string, now time.Time) error
	DeleteExpiredUnused(ctx context.Context, before time.Time) (int64, error)
	ListAudit(ctx context.Context, f models.ResetAuditFilter) ([]models.ResetAuditEntry, error)
}

const resetColumns = `id, user_id, method, token_hash, expires_at, created_at, verified_at, used_at`

type passwordResetRepository struct {
	db *sqlx.DB
}

func NewPasswordResetRepository(db *sqlx.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) IssueIfCooledDown(
	ctx context.Context,
	userID int64,
	method models.ResetMethod,
	tokenHash string,
	now, expiresAt time.Time,
	cooldown time.Duration,
) (*models.PasswordReset, bool, error) {
	var (
		pr     *models.PasswordReset
		issued bool
	)
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// serialises concurrent requests for the same account
		var locked int64
		if err := tx.QueryRowxContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&locked); err != nil {
			return mapPGError(err)
		}

		var last time.Time
		err := tx.QueryRowxContext(ctx, `
			SELECT created_at
			FROM password_resets
			WHERE user_id = $1 AND method = $2
			ORDER BY created_at DESC
			LIMIT 1
		`, userID, method).Scan(&last)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("latest reset: %w", err)
		case now.Sub(last) < cooldown:
			return nil
		}

		row := &models.PasswordReset{}
		if err := tx.GetContext(ctx, row, `
			INSERT INTO password_resets (user_id, method, token_hash, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+resetColumns,
			userID, method, tokenHash, expiresAt, now,
		); err != nil {
			return fmt.Errorf("insert reset: %w", err)
		}
		pr, issued = row, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return pr, issued, nil
}

func (r *passwordResetRepository) GetLatestUnused(ctx context.Context, userID int64, method models.ResetMethod) (*models.PasswordReset, error) {
	const q = `
		SELECT ` + resetColumns + `
		FROM password_resets
		WHERE user_id = $1 AND method = $2 AND used_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	pr := &models.PasswordReset{}
	if err := r.db.GetContext(ctx, pr, q, userID, method); err != nil {
		return nil, mapPGError(err)
	}
	return pr, nil
}

func (r *passwordResetRepository) MarkVerified(ctx context.Context, id int64, now time.Time) (bool, error) {
	const q = `
		UPDATE password_resets
		SET verified_at = $1
		WHERE id = $2 AND verified_at IS NULL AND used_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, q, now, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *passwordResetRepository) GetPinned(ctx context.Context, id, userID int64, method models.ResetMethod) (*models.PasswordReset, error) {
	const q = `
		SELECT ` + resetColumns + `
		FROM password_resets
		WHERE id = $1 AND user_id = $2 AND method = $3
	`
	pr := &models.PasswordReset{}
	if err := r.db.GetContext(ctx, pr, q, id, userID, method); err != nil {
		return nil, mapPGError(err)
	}
	return pr, nil
}

func (r *passwordResetRepository) CompleteReset(
	ctx context.Context,
	resetID, userID int64,
	method models.ResetMethod,
	passwordHash string,
	now time.Time,
) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		pr := &models.PasswordReset{}
		err := tx.GetContext(ctx, pr, `
			SELECT `+resetColumns+`
			FROM password_resets
			WHERE id = $1 AND user_id = $2 AND method = $3
			FOR UPDATE
		`, resetID, userID, method)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrResetUnavailable
		}
		if err != nil {
			return fmt.Errorf("lock reset: %w", err)
		}
		if pr.IsUsed() || pr.IsExpired(now) {
			return ErrResetUnavailable
		}

		// a reset also signs out every refresh session
		if _, err := tx.ExecContext(ctx, `
			UPDATE users
			SET password_hash = $1, updated_at = $2,
			    refresh_token = NULL, refresh_expires_at = NULL, refresh_revoked = TRUE
			WHERE id = $3
		`, passwordHash, now, userID); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE password_resets SET used_at = $1 WHERE id = $2`, now, resetID,
		); err != nil {
			return fmt.Errorf("consume reset: %w", err)
		}
		return nil
	})
}

func (r *passwordResetRepository) DeleteExpiredUnused(ctx context.Context, before time.Time) (int64, error) {
	const q = `DELETE FROM password_resets WHERE used_at IS NULL AND expires_at < $1`
	res, err := r.db.ExecContext(ctx, q, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *passwordResetRepository) ListAudit(ctx context.Context, f models.ResetAuditFilter) ([]models.ResetAuditEntry, error) {
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	b := sq.Select(
		"pr.id", "pr.user_id", "u.email", "pr.method",
		"pr.created_at", "pr.expires_at", "pr.verified_at", "pr.used_at",
	).
		From("password_resets pr").
		Join("users u ON u.id = pr.user_id").
		OrderBy("pr.created_at DESC", "pr.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(max(f.Offset, 0))).
		PlaceholderFormat(sq.Dollar)

	if f.UserID > 0 {
		b = b.Where(sq.Eq{"pr.user_id": f.UserID})
	}
	if f.Method != "" {
		b = b.Where(sq.Eq{"pr.method": f.Method})
	}
	if !f.From.IsZero() {
		b = b.Where(sq.GtOrEq{"pr.created_at": f.From})
	}
	if !f.To.IsZero() {
		b = b.Where(sq.Lt{"pr.created_at": f.To})
	}

	q, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}
	var out []models.ResetAuditEntry
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}
