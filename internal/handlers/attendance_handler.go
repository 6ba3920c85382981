package handlers

import (
	"errors"
	"net/http"

	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler handles gym attendance HTTP requests. All routes are
// employee only; member attendance is recorded implicitly at login.
type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// GetAttendances handles GET /attendances.
func (h *AttendanceHandler) GetAttendances(c *gin.Context) {
	attendances, err := h.attendanceService.GetAttendances()
	if err != nil {
		utils.LogError(err, "Failed to get attendances")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve attendances", ""))
		return
	}
	c.JSON(http.StatusOK, attendances)
}

// GetAttendanceByID handles GET /attendances/:id.
func (h *AttendanceHandler) GetAttendanceByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attendance, err := h.attendanceService.GetAttendanceByID(id)
	if err != nil {
		if errors.Is(err, services.ErrAttendanceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Attendance record not found", ""))
			return
		}
		utils.LogError(err, "Failed to get attendance")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve attendance", ""))
		return
	}

	c.JSON(http.StatusOK, attendance)
}

// CreateAttendance handles POST /attendances.
func (h *AttendanceHandler) CreateAttendance(c *gin.Context) {
	var req services.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	attendance, err := h.attendanceService.CreateAttendance(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFoundForAttendance):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found", ""))
		case errors.Is(err, services.ErrAttendanceInvalid):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to create attendance")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create attendance", ""))
		}
		return
	}

	c.JSON(http.StatusCreated, attendance)
}

// UpdateAttendance handles PUT /attendances/:id.
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	attendance, err := h.attendanceService.UpdateAttendance(id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAttendanceNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Attendance record not found", ""))
		case errors.Is(err, services.ErrAttendanceInvalid):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to update attendance")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update attendance", ""))
		}
		return
	}

	c.JSON(http.StatusOK, attendance)
}

// DeleteAttendance handles DELETE /attendances/:id.
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.attendanceService.DeleteAttendance(id); err != nil {
		if errors.Is(err, services.ErrAttendanceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Attendance record not found", ""))
			return
		}
		utils.LogError(err, "Failed to delete attendance")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete attendance", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance deleted successfully"})
}
