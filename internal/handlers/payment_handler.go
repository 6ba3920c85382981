package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// StorePayment handles POST /payments. A member records their own pending
// payment; the amount is set later at confirmation.
func (h *PaymentHandler) StorePayment(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "payment recording requires an authenticated person")
		return
	}

	var req services.StorePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if principal.IsMember() {
		req.MemberID = principal.PersonID
	}

	payment, err := h.paymentService.StorePayment(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMemberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found", ""))
		case errors.Is(err, services.ErrPaymentValidation):
			utils.RespondValidationFailed(c, err.Error())
		default:
			utils.LogError(err, "Failed to store payment")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to store payment", ""))
		}
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetPendingPayments handles GET /payments/pending. Employee only.
func (h *PaymentHandler) GetPendingPayments(c *gin.Context) {
	payments, err := h.paymentService.GetPendingPayments()
	if err != nil {
		utils.LogError(err, "Failed to get pending payments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve pending payments", ""))
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ConfirmPayment handles POST /payments/:id/confirm. Employee only.
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.ConfirmPayment(id)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment or contract not found", ""))
			return
		}
		utils.LogError(err, "Failed to confirm payment")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to confirm payment", ""))
		return
	}

	c.JSON(http.StatusOK, payment)
}

// ConfirmAllPayments handles POST /payments/confirm-all. Employee only. Ids
// that resolve to no payment or no contract are skipped, not errors.
func (h *PaymentHandler) ConfirmAllPayments(c *gin.Context) {
	var req services.ConfirmAllPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	confirmed, err := h.paymentService.ConfirmAllPayments(req.PaymentIDs)
	if err != nil {
		utils.LogError(err, "Failed to confirm payments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to confirm payments", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirmed": confirmed, "requested": len(req.PaymentIDs)})
}

// GetPaymentDetails handles GET /payments/details?member_id=. Returns the
// membership type from the member's most recent contract by start date, with
// its price when the tier is recognized. Member principals are always scoped
// to themselves; staff select a member via the query parameter.
func (h *PaymentHandler) GetPaymentDetails(c *gin.Context) {
	principal, ok := CurrentPrincipal(c)
	if !ok {
		utils.RespondUnauthorized(c, "payment details require an authenticated person")
		return
	}

	memberID := principal.PersonID
	if !principal.IsMember() {
		id, err := strconv.ParseInt(c.Query("member_id"), 10, 64)
		if err != nil || id <= 0 {
			utils.RespondValidationFailed(c, "member_id query parameter is required")
			return
		}
		memberID = id
	}

	membershipType, err := h.paymentService.GetMembershipTypeForMember(memberID)
	if err != nil {
		if errors.Is(err, services.ErrNoContractForConfirmation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No contract found", ""))
			return
		}
		utils.LogError(err, "Failed to get membership type")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve membership type", ""))
		return
	}

	resp := gin.H{"membership_type": membershipType}
	if price, known := services.PriceForTier(membershipType); known {
		resp["price"] = price
	}
	c.JSON(http.StatusOK, resp)
}
