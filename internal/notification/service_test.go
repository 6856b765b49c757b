package notification

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, n *Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*Notification)
	return n, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*Notification)
	return list, args.Int(1), args.Error(2)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) MarkRead(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockRepository) MarkAllRead(ctx context.Context, userID, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *mockRepository) UnreadCount(ctx context.Context, userID, role string) (int, error) {
	args := m.Called(ctx, userID, role)
	return args.Int(0), args.Error(1)
}

func TestService_CreateDefaultsAndValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
		want    *Notification
	}{
		{
			name: "defaults applied",
			req:  CreateRequest{Title: " Maintenance ", Message: "Water off at noon"},
			want: &Notification{
				Title: "Maintenance", Message: "Water off at noon",
				Type: TypeInfo, Category: CategoryAnnouncement, TargetRole: TargetAll,
			},
		},
		{name: "missing title", req: CreateRequest{Message: "x"}, wantErr: ErrTitleRequired},
		{name: "missing message", req: CreateRequest{Title: "x"}, wantErr: ErrMessageRequired},
		{name: "bad type", req: CreateRequest{Title: "x", Message: "y", Type: "danger"}, wantErr: ErrInvalidType},
		{name: "bad category", req: CreateRequest{Title: "x", Message: "y", Category: "misc"}, wantErr: ErrInvalidCategory},
		{name: "bad target", req: CreateRequest{Title: "x", Message: "y", TargetRole: "guest"}, wantErr: ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			if tt.wantErr == nil {
				repo.On("Create", mock.Anything, tt.want).Return(nil).Once()
			}
			svc := NewService(repo, logger.Nop())

			n, err := svc.Create(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_CreateSystemLogsFailures(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *Notification) bool {
		return n.Category == CategorySystem
	})).Return(errors.New("db down"))

	var buf bytes.Buffer
	svc := NewService(repo, logger.NewWithWriter(&buf, logger.LevelDebug))

	assert.NotPanics(t, func() {
		svc.CreateSystem(context.Background(), CreateRequest{Title: "t", Message: "m"})
	})
	assert.Contains(t, buf.String(), "LEVEL=ERROR")
	assert.Contains(t, buf.String(), "db down")
	repo.AssertExpectations(t)
}

func TestService_MarkReadRequiresExisting(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, ErrNotFound)
	repo.On("GetByID", mock.Anything, "n-1").Return(&Notification{ID: "n-1"}, nil)
	repo.On("MarkRead", mock.Anything, "n-1", "u-1").Return(nil)

	svc := NewService(repo, logger.Nop())

	assert.ErrorIs(t, svc.MarkRead(ctx, "missing", "u-1"), ErrNotFound)
	assert.NoError(t, svc.MarkRead(ctx, "n-1", "u-1"))
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, "missing", mock.Anything)
}
