package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/identity"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserProfile), args.Error(1)
}

func TestRequireAdmin(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	newRouter := func(profiles identity.ProfileRepository) *gin.Engine {
		router := gin.New()
		router.Use(JWTAuth(svc, nil), RequireAdmin(profiles, nil))
		router.GET("/admin", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	call := func(router *gin.Engine, userID uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+newTestToken(t, svc, userID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("admin passes", func(t *testing.T) {
		userID := uuid.New()
		profiles := new(MockProfileRepository)
		profiles.On("FindByUserID", mock.Anything, userID).Return(&identity.UserProfile{UserID: userID, Role: identity.RoleAdmin}, nil)

		w := call(newRouter(profiles), userID)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		userID := uuid.New()
		profiles := new(MockProfileRepository)
		profiles.On("FindByUserID", mock.Anything, userID).Return(&identity.UserProfile{UserID: userID, Role: identity.RoleCustomer}, nil)

		w := call(newRouter(profiles), userID)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})

	t.Run("user without profile is forbidden", func(t *testing.T) {
		userID := uuid.New()
		profiles := new(MockProfileRepository)
		profiles.On("FindByUserID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

		w := call(newRouter(profiles), userID)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("lookup failure is a server error", func(t *testing.T) {
		userID := uuid.New()
		profiles := new(MockProfileRepository)
		profiles.On("FindByUserID", mock.Anything, userID).Return(nil, errors.New("db down"))

		w := call(newRouter(profiles), userID)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("anonymous request is unauthorized", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()
		newRouter(profiles).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		profiles.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	})
}
