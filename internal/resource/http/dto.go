package http

import (
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/residence-booking-backend/internal/resource"
)

type ResourceResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Location     string    `json:"location"`
	PictureURL   *string   `json:"picture_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func PictureURL(id string) string {
	return "/v1/files/resources/" + id + "/picture"
}

func ThumbnailURL(id string) string {
	return "/v1/files/resources/" + id + "/thumbnail"
}

func NewResponse(r *resource.Resource) ResourceResponse {
	resp := ResourceResponse{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		Status:    string(r.Status),
		Location:  r.Location,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.HasPicture() {
		pic := PictureURL(r.ID)
		resp.PictureURL = &pic
		if r.PictureThumbnail != nil {
			thumb := ThumbnailURL(r.ID)
			resp.ThumbnailURL = &thumb
		}
	}
	return resp
}

type ListResourcesRequest struct {
	request.ListParams
	Type   string `form:"type"`
	Status string `form:"status" binding:"omitempty,oneof=available in-use out-of-service"`
	Search string `form:"search"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=name type status location created_at"`
}

func (r *ListResourcesRequest) Validate() error {
	return nil
}

type CreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Location string `json:"location" binding:"required"`
}

func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if strings.TrimSpace(r.Location) == "" {
		return errors.New("location cannot be empty")
	}
	return nil
}

type UpdateRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Location *string `json:"location"`
}

func (r *UpdateRequest) Validate() error {
	if r.Name == nil && r.Type == nil && r.Location == nil {
		return errors.New("at least one field must be provided")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available in-use out-of-service"`
}

// ResourceTag is a brief representation of a resource.
type ResourceTag struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}
