package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/interfaces/http/dto"
	"github.com/erp/storesync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDHeader, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		errorCode    string
		message      string
	}{
		{
			name:         "not found",
			err:          shared.ErrNotFound,
			expectedCode: http.StatusNotFound,
			errorCode:    dto.ErrCodeNotFound,
			message:      "Resource not found",
		},
		{
			name:         "wrapped invalid state",
			err:          fmt.Errorf("pause: %w", shared.ErrInvalidState.WithMessage("cannot pause a running sync")),
			expectedCode: http.StatusUnprocessableEntity,
			errorCode:    dto.ErrCodeInvalidState,
			message:      "cannot pause a running sync",
		},
		{
			name:         "sync-only domain code",
			err:          partner.ErrCustomerRemoteIDConflict,
			expectedCode: http.StatusConflict,
			errorCode:    dto.ErrCodeConflict,
			message:      partner.ErrCustomerRemoteIDConflict.Message,
		},
		{
			name:         "unknown sync domain",
			err:          fmt.Errorf("%w: %q", integration.ErrUnknownSyncDomain, "refunds"),
			expectedCode: http.StatusBadRequest,
			errorCode:    dto.ErrCodeUnknownDomain,
		},
		{
			name:         "unexpected error is hidden",
			err:          errors.New("pq: relation does not exist"),
			expectedCode: http.StatusInternalServerError,
			errorCode:    dto.ErrCodeInternal,
			message:      "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("request_id", "req-7")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "req-7", resp.RequestID)
			assert.Equal(t, tt.errorCode, resp.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Message)
			}
		})
	}
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, nil)

	assert.Equal(t, 0, w.Body.Len())
}
