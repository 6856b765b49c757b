package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nekogravitycat/residence-booking-backend/internal/user"
)

const residentID = "11111111-1111-1111-1111-111111111111"

// mockService covers the self-service calls; everything else panics through the nil interface.
type mockService struct {
	user.Service
	mock.Mock
}

func (m *mockService) UpdateProfile(ctx context.Context, id, displayName string) (*user.User, error) {
	args := m.Called(ctx, id, displayName)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	return m.Called(ctx, id, currentPassword, newPassword).Error(0)
}

func setupRouter(svc user.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		c.Set("userID", residentID)
		c.Set("userRole", user.RoleResident)
		c.Next()
	}
	noAdmin := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, nil), fakeAuth, noAdmin)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateMe(t *testing.T) {
	svc := &mockService{}
	name := "Alice"
	svc.On("UpdateProfile", mock.Anything, residentID, "Alice").
		Return(&user.User{ID: residentID, Email: "a@example.com", DisplayName: &name, Role: user.RoleResident}, nil).Once()

	w := doJSON(setupRouter(svc), http.MethodPatch, "/v1/me", gin.H{"display_name": "Alice"})

	assert.Equal(t, http.StatusOK, w.Code)
	var got MeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, residentID, got.User.ID)
	assert.Equal(t, &name, got.User.DisplayName)
	svc.AssertExpectations(t)

	t.Run("blank name", func(t *testing.T) {
		svc := &mockService{}
		svc.On("UpdateProfile", mock.Anything, residentID, " ").Return(nil, user.ErrDisplayNameEmpty).Once()

		w := doJSON(setupRouter(svc), http.MethodPatch, "/v1/me", gin.H{"display_name": " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		body       gin.H
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{
			name:       "changed",
			body:       gin.H{"current_password": "password1", "new_password": "password2"},
			callsSvc:   true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong current password",
			body:       gin.H{"current_password": "nope-nope", "new_password": "password2"},
			serviceErr: user.ErrWrongPassword,
			callsSvc:   true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "same password",
			body:       gin.H{"current_password": "password1", "new_password": "password1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "new password too short",
			body:       gin.H{"current_password": "password1", "new_password": "short"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing current password",
			body:       gin.H{"new_password": "password2"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.callsSvc {
				svc.On("ChangePassword", mock.Anything, residentID, tt.body["current_password"], tt.body["new_password"]).
					Return(tt.serviceErr).Once()
			}

			w := doJSON(setupRouter(svc), http.MethodPut, "/v1/me/password", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
