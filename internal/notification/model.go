package notification

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("notification not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrMessageRequired = errors.New("message is required")
	ErrInvalidType     = errors.New("type must be info, success, warning or error")
	ErrInvalidCategory = errors.New("category must be system, booking, resource or announcement")
	ErrInvalidTarget   = errors.New("target_role must be all, resident or admin")
)

const (
	TypeInfo    = "info"
	TypeSuccess = "success"
	TypeWarning = "warning"
	TypeError   = "error"
)

const (
	CategorySystem       = "system"
	CategoryBooking      = "booking"
	CategoryResource     = "resource"
	CategoryAnnouncement = "announcement"
)

const (
	TargetAll      = "all"
	TargetResident = "resident"
	TargetAdmin    = "admin"
)

// Notification is a message shown to every user of the target role.
type Notification struct {
	ID         string
	Title      string
	Message    string
	Type       string
	Category   string
	TargetRole string
	ExpiresAt  *time.Time
	CreatedAt  time.Time

	// IsRead is only populated for per-user listings.
	IsRead bool
}

// Filter defines parameters for listing notifications.
type Filter struct {
	// Role limits results to notifications targeting "all" or this role. Empty means no limit.
	Role string
	// ReaderID, when set, fills IsRead and hides expired notifications.
	ReaderID string
	Category string

	Page      int
	PageSize  int
	SortOrder string
}
