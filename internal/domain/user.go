package domain

import (
	"net/mail"
	"strings"
	"time"
)

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
)

// User represents a registered account. PasswordHash is a bcrypt hash.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RegistrationInput is the raw register form.
type RegistrationInput struct {
	Username string
	Email    string
	Password string
}

// Normalize trims whitespace and lower-cases the email.
func (in RegistrationInput) Normalize() RegistrationInput {
	return RegistrationInput{
		Username: strings.TrimSpace(in.Username),
		Email:    NormalizeEmail(in.Email),
		Password: in.Password,
	}
}

// Validate checks required fields and column limits.
func (in RegistrationInput) Validate() error {
	if in.Username == "" {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if len(in.Username) > MaxUsernameLength {
		return &ValidationError{Field: "username", Message: "username must be at most 50 characters"}
	}
	if in.Email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if len(in.Email) > MaxEmailLength {
		return &ValidationError{Field: "email", Message: "email must be at most 100 characters"}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return &ValidationError{Field: "email", Message: "email is not valid"}
	}
	if in.Password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}

// NormalizeEmail is applied before every lookup so "Alice@Example.com" and
// "alice@example.com" are the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
