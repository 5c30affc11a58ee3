package models

import (
	"strings"
	"time"
)

// MinPasswordHashLength is the shortest accepted pre-hashed credential (hex SHA-256).
const MinPasswordHashLength = 64

// ValidationError carries a client-facing message for a rejected payload.
// Field names the offending JSON field when there is exactly one.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	ErrCredentialsRequired = &ValidationError{Message: "Email and passwordHash required"}
	ErrInvalidEmail        = &ValidationError{Message: "Invalid email format", Field: "email"}
	ErrInvalidPasswordHash = &ValidationError{Message: "Invalid password hash", Field: "passwordHash"}
)

// User is an account identified by email. PasswordHash is hashed by the
// client and stored verbatim.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Credentials is the email/passwordHash pair sent to register and login.
type Credentials struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Present reports whether both fields are non-blank.
func (c Credentials) Present() error {
	if strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.PasswordHash) == "" {
		return ErrCredentialsRequired
	}
	return nil
}

// ValidateForRegistration applies the presence, email shape and hash length rules.
func (c Credentials) ValidateForRegistration() error {
	if err := c.Present(); err != nil {
		return err
	}
	if !strings.Contains(c.Email, "@") || !strings.Contains(c.Email, ".") {
		return ErrInvalidEmail
	}
	if len(c.PasswordHash) < MinPasswordHashLength {
		return ErrInvalidPasswordHash
	}
	return nil
}

// GoogleLogin is the payload of the Google sign-in callback.
type GoogleLogin struct {
	GoogleID string `json:"googleId"`
	Email    string `json:"email"`
}
