package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a payment made by a member. A payment inserted with amount 0.00
// is a placeholder awaiting tier-based pricing at confirmation.
type Payment struct {
	PaymentID  int64           `json:"payment_id" db:"payment_id"`
	MemberID   int64           `json:"member_id" db:"member_id"`
	Date       time.Time       `json:"date" db:"date"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	MemberName *string         `json:"member_name,omitempty"` // joined for listings
}

// Payment eligibility statuses.
const (
	PaymentStatusNoContract    = "NoContract"
	PaymentStatusNoPayment     = "NoPayment"
	PaymentStatusEligible      = "Eligible"
	PaymentStatusPaymentExists = "PaymentExists"
)

// PaymentEligibilityResult is the payload of a payment eligibility check.
type PaymentEligibilityResult struct {
	Status      string           `json:"status"`
	PaymentID   *int64           `json:"payment_id,omitempty"`
	PaymentDate *time.Time       `json:"payment_date,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}
