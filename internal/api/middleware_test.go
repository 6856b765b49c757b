package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/residence-booking-backend/internal/user"
)

// stubUsers implements only GetByID; other methods panic through the nil embedded interface.
type stubUsers struct {
	user.Service
	users map[string]*user.User
}

func (s stubUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := stubUsers{users: map[string]*user.User{
		"admin":    {ID: "admin", Role: user.RoleAdmin, IsActive: true},
		"resident": {ID: "resident", Role: user.RoleResident, IsActive: true},
		"disabled": {ID: "disabled", Role: user.RoleAdmin, IsActive: false},
	}}

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{"active admin passes", "admin", http.StatusOK},
		{"resident is forbidden", "resident", http.StatusForbidden},
		{"inactive admin is forbidden", "disabled", http.StatusForbidden},
		{"unknown user", "ghost", http.StatusUnauthorized},
		{"no user in context", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", func(c *gin.Context) {
				if tt.userID != "" {
					c.Set("userID", tt.userID)
				}
				c.Next()
			}, RequireAdmin(svc), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
