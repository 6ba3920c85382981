package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_backend/internal/models"
	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MemberHandler handles member-related HTTP requests.
type MemberHandler struct {
	memberService   services.MemberService
	contractService services.ContractService
	paymentService  services.PaymentService
	classService    services.ClassService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(
	memberService services.MemberService,
	contractService services.ContractService,
	paymentService services.PaymentService,
	classService services.ClassService,
) *MemberHandler {
	return &MemberHandler{
		memberService:   memberService,
		contractService: contractService,
		paymentService:  paymentService,
		classService:    classService,
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		utils.RespondValidationFailed(c, "invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}

// memberMayAccess reports whether the principal may read member-scoped data.
// Employees see everyone; members see only themselves.
func memberMayAccess(principal models.Principal, memberID int64) bool {
	if !principal.IsMember() {
		return true
	}
	return principal.PersonID == memberID
}

// CreateMember handles POST /members. Registration is open: no token needed.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req services.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	member, err := h.memberService.CreateMember(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists", ""))
		case errors.Is(err, services.ErrMemberValidation), errors.Is(err, services.ErrDateFormat):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to create member")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create member", ""))
		}
		return
	}

	c.JSON(http.StatusCreated, member)
}

// GetMembers handles GET /members.
func (h *MemberHandler) GetMembers(c *gin.Context) {
	members, err := h.memberService.GetMembers()
	if err != nil {
		utils.LogError(err, "Failed to get members")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve members", ""))
		return
	}
	c.JSON(http.StatusOK, members)
}

// GetMemberByID handles GET /members/:id.
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "member lookup requires an authenticated person")
		return
	}
	if !memberMayAccess(principal, id) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Members may only access their own profile", ""))
		return
	}

	member, err := h.memberService.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found", ""))
			return
		}
		utils.LogError(err, "Failed to get member")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve member", ""))
		return
	}

	c.JSON(http.StatusOK, member)
}

// UpdateMember handles PUT /members/:id.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "member update requires an authenticated person")
		return
	}
	if !memberMayAccess(principal, id) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Members may only update their own profile", ""))
		return
	}

	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	member, err := h.memberService.UpdateMember(id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found", ""))
		case errors.Is(err, services.ErrUsernameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists", ""))
		case errors.Is(err, services.ErrOldPasswordInvalid):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Old password is incorrect", ""))
		case errors.Is(err, services.ErrMemberValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to update member")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update member", ""))
		}
		return
	}

	c.JSON(http.StatusOK, member)
}

// DeleteMember handles DELETE /members/:id.
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(id); err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found", ""))
		case errors.Is(err, services.ErrMemberInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Member is referenced by other records", err.Error()))
		default:
			utils.LogError(err, "Failed to delete member")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete member", ""))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// GetContractStatus handles GET /members/:id/contract-status.
func (h *MemberHandler) GetContractStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "contract status requires an authenticated person")
		return
	}
	if !memberMayAccess(principal, id) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Members may only view their own contract status", ""))
		return
	}

	result, err := h.contractService.CheckContractStatus(id)
	if err != nil {
		utils.LogError(err, "Failed to check contract status")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check contract status", ""))
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPaymentEligibility handles GET /members/:id/payment-eligibility.
func (h *MemberHandler) GetPaymentEligibility(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "payment eligibility requires an authenticated person")
		return
	}
	if !memberMayAccess(principal, id) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Members may only view their own payment eligibility", ""))
		return
	}

	result, err := h.paymentService.CheckPaymentEligibility(id)
	if err != nil {
		utils.LogError(err, "Failed to check payment eligibility")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to check payment eligibility", ""))
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMemberCalendar handles GET /members/:id/calendar. Joined classes only,
// rendered blue.
func (h *MemberHandler) GetMemberCalendar(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "member calendar requires an authenticated person")
		return
	}
	if !memberMayAccess(principal, id) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Members may only view their own calendar", ""))
		return
	}

	events, err := h.classService.GetMemberCalendar(id)
	if err != nil {
		utils.LogError(err, "Failed to build member calendar")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build calendar", ""))
		return
	}

	c.JSON(http.StatusOK, events)
}
