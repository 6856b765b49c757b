package resource

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NewKind(http.StatusNotFound, "resource_not_found", "resource not found")
	ErrEmptyName           = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrEmptyLocation       = apperror.New(http.StatusBadRequest, "location cannot be empty")
	ErrInvalidResourceType = apperror.New(http.StatusBadRequest, "unknown resource type")
	ErrInvalidStatus       = apperror.New(http.StatusBadRequest, "status must be available, in-use or out-of-service")
	ErrInUse               = apperror.New(http.StatusConflict, "resource has bookings and cannot be deleted")
	ErrInvalidPicture      = apperror.New(http.StatusBadRequest, "picture must be a JPEG, PNG or GIF image")
	ErrPictureTooLarge     = apperror.New(http.StatusRequestEntityTooLarge, "picture is too large")
	ErrPictureNotFound     = apperror.New(http.StatusNotFound, "resource has no picture")
)

// Status gates new bookings on a resource.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusInUse        Status = "in-use"
	StatusOutOfService Status = "out-of-service"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusOutOfService:
		return true
	}
	return false
}

// DefaultPicture is stored for resources without an uploaded picture.
const DefaultPicture = "default-resource.png"

// Resource represents a bookable unit (e.g., Washer 2, Study Room B).
type Resource struct {
	ID               string
	Name             string
	Type             string
	Status           Status
	Location         string
	Picture          string
	PictureThumbnail *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasPicture reports whether an uploaded picture is stored for r.
func (r *Resource) HasPicture() bool {
	return r.Picture != "" && r.Picture != DefaultPicture
}

// Filter defines parameters for listing resources.
type Filter struct {
	Type      string
	Status    Status
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
