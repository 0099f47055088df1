package model

import (
	"errors"
	"time"
)

// User is an application account, looked up by its unique username.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     *string   `json:"full_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Password length bounds. bcrypt rejects input longer than 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var (
	// ErrPasswordTooShort is returned by ValidatePassword for short passwords.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrPasswordTooLong is returned by ValidatePassword for passwords over 72 bytes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// ValidatePassword checks the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
