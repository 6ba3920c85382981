package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := newTestRouter()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsPrincipalContext(t *testing.T) {
	r := newTestRouter()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		personID, _ := c.Get(ContextPersonIDKey)
		role, _ := c.Get(ContextRoleKey)
		c.JSON(http.StatusOK, gin.H{"person_id": personID, "role": role})
	})

	token, err := utils.GenerateAccessToken(7, "jane", "Member")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"person_id":7`)
	assert.Contains(t, w.Body.String(), `"role":"Member"`)
}

func TestRoleAuthMiddlewareForbidsWrongRole(t *testing.T) {
	r := newTestRouter()
	r.GET("/staff", AuthMiddleware(), RoleAuthMiddleware("GymEmployee"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	memberToken, err := utils.GenerateAccessToken(7, "jane", "Member")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	staffToken, err := utils.GenerateAccessToken(3, "coach", "GymEmployee")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
