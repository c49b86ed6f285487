package model

import (
	"errors"
	"time"
)

// User represents a registered account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Nickname       string    `db:"nickname" json:"nickname"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Birthday       time.Time `db:"birthday" json:"birthday"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterRequest represents the data needed to register a new user.
// Birthday uses the YYYY-MM-DD wire format.
type RegisterRequest struct {
	Nickname  string `json:"nickname"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthday  string `json:"birthday"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the editable profile fields. Nickname and
// password changes go through dedicated flows, not here.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthday  string `json:"birthday"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrNicknameExists is returned when the nickname is already taken
	// (nicknames are unique case-insensitively)
	ErrNicknameExists = errors.New("nickname already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRegistration is returned when a required profile field is
	// missing or malformed
	ErrInvalidRegistration = errors.New("invalid registration data")

	// ErrInvalidProfile is returned when a profile edit carries a missing
	// or malformed field
	ErrInvalidProfile = errors.New("invalid profile data")

	// ErrNotAccountOwner is returned when a user tries to delete or edit an
	// account that is not theirs
	ErrNotAccountOwner = errors.New("not the owner of this account")
)
