package handlers

import (
	"errors"
	"net/http"

	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ContractHandler handles contract-related HTTP requests.
type ContractHandler struct {
	contractService services.ContractService
}

// NewContractHandler creates a new ContractHandler.
func NewContractHandler(contractService services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// CreateContract handles POST /contracts. A member signs for themselves; the
// member_id in the body is overridden by the acting member's own id.
func (h *ContractHandler) CreateContract(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "contract creation requires an authenticated person")
		return
	}

	var req services.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if principal.IsMember() {
		req.MemberID = principal.PersonID
	}

	contract, err := h.contractService.CreateContract(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found", ""))
		case errors.Is(err, services.ErrContractValidation), errors.Is(err, services.ErrContractDateFormat):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to create contract")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create contract", ""))
		}
		return
	}

	c.JSON(http.StatusCreated, contract)
}

// GetContracts handles GET /contracts. Employees see every contract; members
// see only their own.
func (h *ContractHandler) GetContracts(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "contract listing requires an authenticated person")
		return
	}

	var err error
	if principal.IsMember() {
		contracts, memberErr := h.contractService.GetContractsByMember(principal.PersonID)
		if memberErr == nil {
			c.JSON(http.StatusOK, contracts)
			return
		}
		err = memberErr
	} else {
		contracts, allErr := h.contractService.GetContracts()
		if allErr == nil {
			c.JSON(http.StatusOK, contracts)
			return
		}
		err = allErr
	}

	utils.LogError(err, "Failed to get contracts")
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve contracts", ""))
}

// GetContractByID handles GET /contracts/:id.
func (h *ContractHandler) GetContractByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "contract lookup requires an authenticated person")
		return
	}

	contract, err := h.contractService.GetContractByID(id)
	if err != nil {
		if errors.Is(err, services.ErrContractNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Contract not found", ""))
			return
		}
		utils.LogError(err, "Failed to get contract")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve contract", ""))
		return
	}

	if principal.IsMember() && contract.MemberID != principal.PersonID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Members may only access their own contracts", ""))
		return
	}

	c.JSON(http.StatusOK, contract)
}

// UpdateContract handles PUT /contracts/:id. Employee only.
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	contract, err := h.contractService.UpdateContract(id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrContractNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Contract not found", ""))
		case errors.Is(err, services.ErrContractValidation), errors.Is(err, services.ErrContractDateFormat):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to update contract")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update contract", ""))
		}
		return
	}

	c.JSON(http.StatusOK, contract)
}

// DeleteContract handles DELETE /contracts/:id. Employee only.
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.DeleteContract(id); err != nil {
		if errors.Is(err, services.ErrContractNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Contract not found", ""))
			return
		}
		utils.LogError(err, "Failed to delete contract")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete contract", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted successfully"})
}
