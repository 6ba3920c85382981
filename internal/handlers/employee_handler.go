package handlers

import (
	"errors"
	"net/http"

	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// EmployeeHandler handles gym employee HTTP requests.
type EmployeeHandler struct {
	employeeService services.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(employeeService services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// CreateEmployee handles POST /employees.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req services.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	employee, err := h.employeeService.CreateEmployee(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists", ""))
		case errors.Is(err, services.ErrEmployeeValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to create employee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create employee", ""))
		}
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// GetEmployees handles GET /employees.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	employees, err := h.employeeService.GetEmployees()
	if err != nil {
		utils.LogError(err, "Failed to get employees")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve employees", ""))
		return
	}
	c.JSON(http.StatusOK, employees)
}

// GetInstructors handles GET /employees/instructors. Open to members so the
// class pages can show instructor names.
func (h *EmployeeHandler) GetInstructors(c *gin.Context) {
	instructors, err := h.employeeService.GetInstructors()
	if err != nil {
		utils.LogError(err, "Failed to get instructors")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve instructors", ""))
		return
	}
	c.JSON(http.StatusOK, instructors)
}

// GetEmployeeByID handles GET /employees/:id.
func (h *EmployeeHandler) GetEmployeeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	employee, err := h.employeeService.GetEmployeeByID(id)
	if err != nil {
		if errors.Is(err, services.ErrEmployeeNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found", ""))
			return
		}
		utils.LogError(err, "Failed to get employee")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve employee", ""))
		return
	}

	c.JSON(http.StatusOK, employee)
}

// UpdateEmployee handles PUT /employees/:id.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	employee, err := h.employeeService.UpdateEmployee(id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found", ""))
		case errors.Is(err, services.ErrUsernameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists", ""))
		case errors.Is(err, services.ErrOldPasswordInvalid):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Old password is incorrect", ""))
		case errors.Is(err, services.ErrEmployeeValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to update employee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update employee", ""))
		}
		return
	}

	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee handles DELETE /employees/:id.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(id); err != nil {
		switch {
		case errors.Is(err, services.ErrEmployeeNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Employee not found", ""))
		case errors.Is(err, services.ErrEmployeeInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Employee still instructs classes", err.Error()))
		default:
			utils.LogError(err, "Failed to delete employee")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete employee", ""))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
