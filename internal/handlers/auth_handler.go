package handlers

import (
	"errors"
	"net/http"

	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	authService   services.AuthService
	memberService services.MemberService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService services.AuthService, memberService services.MemberService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		memberService: memberService,
	}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password", ""))
		case errors.Is(err, services.ErrUnknownRole):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Login failed")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to log in", ""))
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "logout requires an authenticated person")
		return
	}

	if err := h.authService.Logout(principal); err != nil {
		utils.LogError(err, "Logout failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to log out", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "no authenticated person")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"person_id": principal.PersonID,
		"username":  principal.Username,
		"role":      principal.Role,
	})
}

// UsernameTaken handles GET /auth/username-taken?username=...
// It backs the live availability check on the registration form.
func (h *AuthHandler) UsernameTaken(c *gin.Context) {
	username := c.Query("username")
	if utils.IsEmpty(username) {
		utils.RespondValidationFailed(c, "username query parameter is required")
		return
	}

	taken, err := h.memberService.IsUsernameTaken(username)
	if err != nil {
		utils.LogError(err, "Username check failed")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check username", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "is_taken": taken})
}
