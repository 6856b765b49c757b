package resource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/nekogravitycat/residence-booking-backend/internal/notification"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/storage"
)

const (
	maxPictureBytes = 5 << 20
	pictureMaxSide  = 1000
	thumbnailSide   = 200
)

// TypeRegistry answers whether a resource type is configured.
type TypeRegistry interface {
	HasResourceType(ctx context.Context, value string) (bool, error)
}

// Notifier records resident-facing notifications about resource changes.
type Notifier interface {
	CreateSystem(ctx context.Context, req notification.CreateRequest)
}

type CreateRequest struct {
	Name     string
	Type     string
	Location string
}

type UpdateRequest struct {
	Name     *string
	Type     *string
	Location *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Resource, error)
	UploadPicture(ctx context.Context, id string, content io.Reader) (*Resource, error)
	OpenPicture(ctx context.Context, id string, thumbnail bool) (io.ReadCloser, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	types    TypeRegistry
	notifier Notifier
	storage  storage.Storage
	imgProc  *storage.ImageProcessor
	log      *logger.Logger
}

func NewService(
	repo Repository,
	types TypeRegistry,
	notifier Notifier,
	store storage.Storage,
	log *logger.Logger,
) Service {
	return &service{
		repo:     repo,
		types:    types,
		notifier: notifier,
		storage:  store,
		imgProc:  storage.NewImageProcessor(),
		log:      log,
	}
}

func (s *service) checkType(ctx context.Context, value string) error {
	ok, err := s.types.HasResourceType(ctx, value)
	if err != nil {
		return fmt.Errorf("check resource type: %w", err)
	}
	if !ok {
		return ErrInvalidResourceType
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	name := strings.TrimSpace(req.Name)
	location := strings.TrimSpace(req.Location)
	if name == "" {
		return nil, ErrEmptyName
	}
	if location == "" {
		return nil, ErrEmptyLocation
	}
	if err := s.checkType(ctx, req.Type); err != nil {
		return nil, err
	}

	res := &Resource{
		Name:     name,
		Type:     req.Type,
		Status:   StatusAvailable,
		Location: location,
		Picture:  DefaultPicture,
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}

	s.log.Info("resource created", logger.Resource(res.ID), logger.F("TYPE", res.Type))
	s.notifier.CreateSystem(ctx, notification.CreateRequest{
		Title:      "New Resource Available!",
		Message:    fmt.Sprintf("A new %s resource %q has been added at %s. Book it now!", typeLabel(res.Type), res.Name, res.Location),
		Type:       notification.TypeSuccess,
		Category:   notification.CategoryResource,
		TargetRole: notification.TargetResident,
	})
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		res.Name = strings.TrimSpace(*req.Name)
	}
	if req.Location != nil {
		if strings.TrimSpace(*req.Location) == "" {
			return nil, ErrEmptyLocation
		}
		res.Location = strings.TrimSpace(*req.Location)
	}
	if req.Type != nil && *req.Type != res.Type {
		if err := s.checkType(ctx, *req.Type); err != nil {
			return nil, err
		}
		res.Type = *req.Type
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}

	s.notifier.CreateSystem(ctx, notification.CreateRequest{
		Title:      "Resource Updated",
		Message:    fmt.Sprintf("Resource %q has been updated. Check the latest details.", res.Name),
		Type:       notification.TypeInfo,
		Category:   notification.CategoryResource,
		TargetRole: notification.TargetResident,
	})
	return res, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Resource, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == status {
		return res, nil
	}

	res.Status = status
	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}

	s.log.Info("resource status changed", logger.Resource(res.ID), logger.F("STATUS", status))

	var kind, msg string
	switch status {
	case StatusOutOfService:
		kind, msg = notification.TypeError, fmt.Sprintf("Resource %q is now out of service. Please choose another resource.", res.Name)
	case StatusAvailable:
		kind, msg = notification.TypeSuccess, fmt.Sprintf("Good news! Resource %q is now available for booking.", res.Name)
	case StatusInUse:
		kind, msg = notification.TypeWarning, fmt.Sprintf("Resource %q is currently in use.", res.Name)
	}
	s.notifier.CreateSystem(ctx, notification.CreateRequest{
		Title:      "Resource Status Update",
		Message:    msg,
		Type:       kind,
		Category:   notification.CategoryResource,
		TargetRole: notification.TargetResident,
	})
	return res, nil
}

// UploadPicture stores a bounded JPEG and a thumbnail, then swaps them onto the resource.
// The previous files are removed once the row points at the new ones.
func (s *service) UploadPicture(ctx context.Context, id string, content io.Reader) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(io.LimitReader(content, maxPictureBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read picture: %w", err)
	}
	if len(raw) > maxPictureBytes {
		return nil, ErrPictureTooLarge
	}

	picture, err := s.imgProc.Fit(bytes.NewReader(raw), pictureMaxSide, pictureMaxSide)
	if err != nil {
		return nil, ErrInvalidPicture
	}
	thumb, err := s.imgProc.Fit(bytes.NewReader(raw), thumbnailSide, thumbnailSide)
	if err != nil {
		return nil, ErrInvalidPicture
	}

	fileID := uuid.New().String()
	shard := fileID[:2]
	picturePath := fmt.Sprintf("resources/%s/%s.jpg", shard, fileID)
	thumbPath := fmt.Sprintf("resources/%s/%s_thumb.jpg", shard, fileID)

	if err := s.storage.Save(ctx, picturePath, bytes.NewReader(picture)); err != nil {
		return nil, fmt.Errorf("save picture: %w", err)
	}
	if err := s.storage.Save(ctx, thumbPath, bytes.NewReader(thumb)); err != nil {
		_ = s.storage.Delete(ctx, picturePath)
		return nil, fmt.Errorf("save thumbnail: %w", err)
	}

	oldPicture, oldThumb := res.Picture, res.PictureThumbnail
	hadPicture := res.HasPicture()

	res.Picture = picturePath
	res.PictureThumbnail = &thumbPath
	if err := s.repo.Update(ctx, res); err != nil {
		_ = s.storage.Delete(ctx, picturePath)
		_ = s.storage.Delete(ctx, thumbPath)
		return nil, err
	}

	if hadPicture {
		s.removeFiles(ctx, oldPicture, oldThumb)
	}
	return res, nil
}

func (s *service) OpenPicture(ctx context.Context, id string, thumbnail bool) (io.ReadCloser, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !res.HasPicture() {
		return nil, ErrPictureNotFound
	}

	path := res.Picture
	if thumbnail {
		if res.PictureThumbnail == nil {
			return nil, ErrPictureNotFound
		}
		path = *res.PictureThumbnail
	}

	rc, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPictureNotFound
		}
		return nil, err
	}
	return rc, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if res.HasPicture() {
		s.removeFiles(ctx, res.Picture, res.PictureThumbnail)
	}

	s.log.Info("resource deleted", logger.Resource(res.ID))
	s.notifier.CreateSystem(ctx, notification.CreateRequest{
		Title:      "Resource Removed",
		Message:    fmt.Sprintf("The resource %q at %s has been removed from the system.", res.Name, res.Location),
		Type:       notification.TypeWarning,
		Category:   notification.CategoryResource,
		TargetRole: notification.TargetAll,
	})
	return nil
}

func (s *service) removeFiles(ctx context.Context, picture string, thumb *string) {
	if err := s.storage.Delete(ctx, picture); err != nil {
		s.log.Warn("failed to delete picture", logger.F("PATH", picture), logger.Error(err))
	}
	if thumb != nil {
		if err := s.storage.Delete(ctx, *thumb); err != nil {
			s.log.Warn("failed to delete thumbnail", logger.F("PATH", *thumb), logger.Error(err))
		}
	}
}

func typeLabel(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}
