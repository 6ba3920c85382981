package handlers

import (
	"gym_backend/internal/middleware"
	"gym_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// CurrentPrincipal reads the authenticated person from the request context.
// The second return value is false when the request carries no principal;
// callers must respond 401 rather than proceed.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	personIDValue, exists := c.Get(middleware.ContextPersonIDKey)
	if !exists {
		return models.Principal{}, false
	}
	personID, ok := personIDValue.(int64)
	if !ok {
		return models.Principal{}, false
	}

	username, _ := c.Get(middleware.ContextUsernameKey)
	role, _ := c.Get(middleware.ContextRoleKey)

	principal := models.Principal{PersonID: personID}
	if s, ok := username.(string); ok {
		principal.Username = s
	}
	if s, ok := role.(string); ok {
		principal.Role = s
	}
	return principal, true
}
