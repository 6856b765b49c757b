package http

import (
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/notification"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/request"
)

type NotificationResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Type       string     `json:"type"`
	Category   string     `json:"category"`
	TargetRole string     `json:"target_role"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	IsRead     bool       `json:"is_read"`
}

func NewResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       n.Type,
		Category:   n.Category,
		TargetRole: n.TargetRole,
		ExpiresAt:  n.ExpiresAt,
		CreatedAt:  n.CreatedAt,
		IsRead:     n.IsRead,
	}
}

type ListNotificationsRequest struct {
	request.ListParams
	Category string `form:"category" binding:"omitempty,oneof=system booking resource announcement"`
}

func (r *ListNotificationsRequest) Validate() error {
	return nil
}

type CreateRequest struct {
	Title      string     `json:"title" binding:"required"`
	Message    string     `json:"message" binding:"required"`
	Type       string     `json:"type" binding:"omitempty,oneof=info success warning error"`
	Category   string     `json:"category" binding:"omitempty,oneof=system booking resource announcement"`
	TargetRole string     `json:"target_role" binding:"omitempty,oneof=all resident admin"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

func (r *CreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if strings.TrimSpace(r.Message) == "" {
		return errors.New("message cannot be empty")
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(time.Now()) {
		return errors.New("expires_at must be in the future")
	}
	return nil
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
