package notification

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
)

type CreateRequest struct {
	Title      string
	Message    string
	Type       string
	Category   string
	TargetRole string
	ExpiresAt  *time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notification, error)
	// CreateSystem records a notification raised by another module. Failures are logged, never returned.
	CreateSystem(ctx context.Context, req CreateRequest)
	GetByID(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, filter Filter) ([]*Notification, int, error)
	Delete(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID, role string) error
	UnreadCount(ctx context.Context, userID, role string) (int, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: log}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Notification, error) {
	n, err := build(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) CreateSystem(ctx context.Context, req CreateRequest) {
	if req.Category == "" {
		req.Category = CategorySystem
	}
	if _, err := s.Create(ctx, req); err != nil {
		s.log.Error("failed to create system notification",
			logger.Action("notification.create"), logger.F("TITLE", req.Title), logger.Error(err))
	}
}

func build(req CreateRequest) (*Notification, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrMessageRequired
	}

	n := &Notification{
		Title:      strings.TrimSpace(req.Title),
		Message:    strings.TrimSpace(req.Message),
		Type:       orDefault(req.Type, TypeInfo),
		Category:   orDefault(req.Category, CategoryAnnouncement),
		TargetRole: orDefault(req.TargetRole, TargetAll),
		ExpiresAt:  req.ExpiresAt,
	}

	switch n.Type {
	case TypeInfo, TypeSuccess, TypeWarning, TypeError:
	default:
		return nil, ErrInvalidType
	}
	switch n.Category {
	case CategorySystem, CategoryBooking, CategoryResource, CategoryAnnouncement:
	default:
		return nil, ErrInvalidCategory
	}
	switch n.TargetRole {
	case TargetAll, TargetResident, TargetAdmin:
	default:
		return nil, ErrInvalidTarget
	}
	return n, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s *service) GetByID(ctx context.Context, id string) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) MarkAllRead(ctx context.Context, userID, role string) error {
	return s.repo.MarkAllRead(ctx, userID, role)
}

func (s *service) UnreadCount(ctx context.Context, userID, role string) (int, error) {
	return s.repo.UnreadCount(ctx, userID, role)
}
