package models

import "time"

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone_number" db:"phone_number"` // E.164
	PasswordHash string `json:"-" db:"password_hash"`           // не отдаём наружу
	Role         string `json:"role" db:"role"`
	Gender       string `json:"gender" db:"gender"`
	IsDeleted    bool   `json:"is_deleted" db:"is_deleted"`

	// refresh-хранение в БД
	RefreshToken     *string    `json:"-" db:"refresh_token"`
	RefreshExpiresAt *time.Time `json:"-" db:"refresh_expires_at"`
	RefreshRevoked   bool       `json:"-" db:"refresh_revoked"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type UserFilter struct {
	Role    string
	Deleted *bool
	Limit   int
	Offset  int
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
