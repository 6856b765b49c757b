package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/apperror"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   ErrorResponse
	}{
		{
			name:       "app error with kind",
			err:        apperror.NewKind(http.StatusConflict, "slot_conflict", "This slot is already booked."),
			wantStatus: http.StatusConflict,
			wantBody:   ErrorResponse{Error: "This slot is already booked.", Code: "slot_conflict"},
		},
		{
			name:       "wrapped app error",
			err:        fmt.Errorf("create: %w", apperror.New(http.StatusNotFound, "resource not found")),
			wantStatus: http.StatusNotFound,
			wantBody:   ErrorResponse{Error: "resource not found"},
		},
		{
			name:       "unknown error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorResponse{Error: "internal server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
