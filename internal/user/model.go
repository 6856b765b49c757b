package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrInvalidAdminCode   = errors.New("invalid admin code")
	ErrInvalidRole        = errors.New("role must be resident or admin")
	ErrDisplayNameEmpty   = errors.New("display name is required")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// Role values stored on users.
const (
	RoleResident = "resident"
	RoleAdmin    = "admin"
)

// User represents a user in the system.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	Role         string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
	IsActive     bool
}

// IsAdmin reports whether u holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Name returns the display name, or the email when none is set.
func (u *User) Name() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Email       string
	DisplayName string
	Role        string
	IsActive    *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Stats counts users by role.
type Stats struct {
	Total     int
	Admins    int
	Residents int
}
