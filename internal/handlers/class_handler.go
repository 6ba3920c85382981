package handlers

import (
	"errors"
	"net/http"

	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClassHandler handles gym class and enrollment HTTP requests.
type ClassHandler struct {
	classService services.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService services.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

// CreateClass handles POST /classes. Employee only.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req services.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	class, err := h.classService.CreateClass(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInstructorNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Instructor not found", ""))
		case errors.Is(err, services.ErrClassValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to create class")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create class", ""))
		}
		return
	}

	c.JSON(http.StatusCreated, class)
}

// GetClasses handles GET /classes.
func (h *ClassHandler) GetClasses(c *gin.Context) {
	classes, err := h.classService.GetClasses()
	if err != nil {
		utils.LogError(err, "Failed to get classes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve classes", ""))
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetAvailableClasses handles GET /classes/available.
func (h *ClassHandler) GetAvailableClasses(c *gin.Context) {
	classes, err := h.classService.GetAvailableClasses()
	if err != nil {
		utils.LogError(err, "Failed to get available classes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve available classes", ""))
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetClassByID handles GET /classes/:id.
func (h *ClassHandler) GetClassByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	class, err := h.classService.GetClassByID(id)
	if err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Class not found", ""))
			return
		}
		utils.LogError(err, "Failed to get class")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve class", ""))
		return
	}

	c.JSON(http.StatusOK, class)
}

// UpdateClass handles PUT /classes/:id. Employee only.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	class, err := h.classService.UpdateClass(id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClassNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Class not found", ""))
		case errors.Is(err, services.ErrInstructorNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Instructor not found", ""))
		case errors.Is(err, services.ErrClassValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to update class")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update class", ""))
		}
		return
	}

	c.JSON(http.StatusOK, class)
}

// DeleteClass handles DELETE /classes/:id. Employee only.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.classService.DeleteClass(id); err != nil {
		switch {
		case errors.Is(err, services.ErrClassNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Class not found", ""))
		case errors.Is(err, services.ErrClassInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Class still has enrolled members", err.Error()))
		default:
			utils.LogError(err, "Failed to delete class")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete class", ""))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class deleted successfully"})
}

// ToggleEnrollment handles POST /classes/:id/join. The same endpoint joins
// and leaves: a second call undoes the first.
func (h *ClassHandler) ToggleEnrollment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "class enrollment requires an authenticated member")
		return
	}

	action, err := h.classService.ToggleEnrollment(id, principal.PersonID)
	if err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Class not found", ""))
			return
		}
		utils.LogError(err, "Failed to toggle enrollment")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to toggle enrollment", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"class_id": id, "action": action})
}

// GetJoinedClasses handles GET /classes/joined. Returns the acting member's
// enrolled class ids so the UI can mark toggles.
func (h *ClassHandler) GetJoinedClasses(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "joined classes require an authenticated member")
		return
	}

	ids, err := h.classService.GetJoinedClassIDs(principal.PersonID)
	if err != nil {
		utils.LogError(err, "Failed to get joined classes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve joined classes", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"class_ids": ids})
}

// GetClassCalendar handles GET /classes/calendar. Every scheduled class as a
// green hour-long event.
func (h *ClassHandler) GetClassCalendar(c *gin.Context) {
	events, err := h.classService.GetClassCalendar()
	if err != nil {
		utils.LogError(err, "Failed to build class calendar")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build calendar", ""))
		return
	}
	c.JSON(http.StatusOK, events)
}
