package models

import "time"

type ResetMethod string

const (
	ResetMethodEmail ResetMethod = "email"
	ResetMethodSMS   ResetMethod = "sms"
)

func (m ResetMethod) Valid() bool {
	return m == ResetMethodEmail || m == ResetMethodSMS
}

// PasswordReset is one issued one-time code. Rows are only ever updated to
// set VerifiedAt or UsedAt.
type PasswordReset struct {
	ID         int64       `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	Method     ResetMethod `json:"method" db:"method"`
	TokenHash  string      `json:"-" db:"token_hash"`
	ExpiresAt  time.Time   `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	VerifiedAt *time.Time  `json:"verified_at,omitempty" db:"verified_at"`
	UsedAt     *time.Time  `json:"used_at,omitempty" db:"used_at"`
}

func (p *PasswordReset) IsUsed() bool {
	return p.UsedAt != nil
}

func (p *PasswordReset) IsExpired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}

// ResetAuditEntry is a reset row joined with its account, as shown in the
// admin reports. The code hash is never selected.
type ResetAuditEntry struct {
	ID         int64       `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	Email      string      `json:"email" db:"email"`
	Method     ResetMethod `json:"method" db:"method"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	ExpiresAt  time.Time   `json:"expires_at" db:"expires_at"`
	VerifiedAt *time.Time  `json:"verified_at,omitempty" db:"verified_at"`
	UsedAt     *time.Time  `json:"used_at,omitempty" db:"used_at"`
}

// Status is "used", "expired" or "active" relative to now.
func (e ResetAuditEntry) Status(now time.Time) string {
	switch {
	case e.UsedAt != nil:
		return "used"
	case e.ExpiresAt.Before(now):
		return "expired"
	default:
		return "active"
	}
}

type ResetAuditFilter struct {
	UserID int64
	Method ResetMethod
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}
