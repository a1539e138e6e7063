package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prakruthi/storefront/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationInput struct {
	Name     string  `json:"name" binding:"required,notblank,max=10"`
	Nickname *string `json:"nickname" binding:"omitempty,notblank"`
	Status   string  `json:"status" binding:"omitempty,oneof=pending delivered"`
}

func newValidationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	require.NoError(t, SetupValidator())

	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var input validationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter(t)

	t.Run("blank strings are rejected with json field names", func(t *testing.T) {
		w := postJSON(router, `{"name": "   ", "nickname": " ", "status": "lost"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must not be blank", fields["name"])
		assert.Equal(t, "Must not be blank", fields["nickname"])
		assert.Equal(t, "Must be one of: pending delivered", fields["status"])
	})

	t.Run("length limits report the bound", func(t *testing.T) {
		w := postJSON(router, `{"name": "far too long a name"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Must be at most 10 characters")
	})

	t.Run("malformed json is not a field error", func(t *testing.T) {
		w := postJSON(router, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})

	t.Run("valid input passes", func(t *testing.T) {
		w := postJSON(router, `{"name": "Ravi", "status": "pending"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
