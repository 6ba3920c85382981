package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Payment ---
var (
	ErrPaymentNotFound           = errors.New("payment not found")
	ErrPaymentValidation         = errors.New("payment data validation error")
	ErrNoContractForConfirmation = errors.New("no contract found for the payment's member")
)

// tierPrices is the fixed price table keyed by membership tier. An
// unrecognized tier leaves the payment amount unchanged at confirmation.
var tierPrices = map[string]decimal.Decimal{
	models.TierGold:     decimal.NewFromInt(400),
	models.TierSilver:   decimal.NewFromInt(300),
	models.TierPlatinum: decimal.NewFromInt(500),
}

// PriceForTier returns the canonical price for a membership tier. The second
// return value reports whether the tier is recognized.
func PriceForTier(membershipType string) (decimal.Decimal, bool) {
	price, ok := tierPrices[membershipType]
	return price, ok
}

// --- Payment DTOs ---
type StorePaymentRequest struct {
	MemberID int64   `json:"member_id"`
	Date     *string `json:"date"` // YYYY-MM-DD, defaults to today
}

type ConfirmAllPaymentsRequest struct {
	PaymentIDs []int64 `json:"payment_ids" binding:"required"`
}

// --- PaymentService Interface ---
type PaymentService interface {
	// StorePayment records a placeholder payment with amount 0.00, awaiting
	// tier-based pricing at confirmation.
	StorePayment(req StorePaymentRequest) (*models.Payment, error)
	GetPendingPayments() ([]models.Payment, error)

	// ConfirmPayment prices the payment from the member's most recent
	// contract ordered by start date. Unrecognized tiers leave the amount
	// unchanged; the write still happens.
	ConfirmPayment(paymentID int64) (*models.Payment, error)
	// ConfirmAllPayments applies the same rule per id, skipping ids that
	// resolve to no payment or no contract. Returns the number confirmed.
	ConfirmAllPayments(paymentIDs []int64) (int, error)

	// CheckPaymentEligibility reports whether the member owes a payment:
	// NoContract, NoPayment, Eligible (last payment older than one month) or
	// PaymentExists with the existing payment's details.
	CheckPaymentEligibility(memberID int64) (*models.PaymentEligibilityResult, error)

	// GetMembershipTypeForMember returns the membership type of the member's
	// most recent contract by start date.
	GetMembershipTypeForMember(memberID int64) (string, error)
}

// --- paymentService Implementation ---
type paymentService struct {
	paymentRepo  repositories.PaymentRepository
	contractRepo repositories.ContractRepository
	db           *sql.DB
	now          func() time.Time
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(paymentRepo repositories.PaymentRepository, contractRepo repositories.ContractRepository, db *sql.DB) PaymentService {
	return &paymentService{
		paymentRepo:  paymentRepo,
		contractRepo: contractRepo,
		db:           db,
		now:          time.Now,
	}
}

func (s *paymentService) StorePayment(req StorePaymentRequest) (*models.Payment, error) {
	if req.MemberID == 0 {
		return nil, fmt.Errorf("%w: member id is required", ErrPaymentValidation)
	}

	date := s.now()
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", ErrPaymentValidation, *req.Date)
		}
		date = parsed
	}

	payment := &models.Payment{
		MemberID: req.MemberID,
		Date:     date,
		Amount:   decimal.Zero, // placeholder until confirmation
	}

	if _, err := s.paymentRepo.CreatePayment(s.db, payment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to store payment: %w", err)
	}
	return payment, nil
}

func (s *paymentService) GetPendingPayments() ([]models.Payment, error) {
	payments, err := s.paymentRepo.GetPendingPayments()
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payments: %w", err)
	}
	return payments, nil
}

// confirmOne prices a single payment inside the given executor. It returns
// repositories.ErrNotFound when the payment or the member's contract is
// missing, so bulk confirmation can skip rather than fail.
func (s *paymentService) confirmOne(executor repositories.SQLExecutor, paymentID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByID(executor, paymentID)
	if err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetLatestContractByStartDate(executor, payment.MemberID)
	if err != nil {
		return nil, err
	}

	if price, ok := PriceForTier(contract.MembershipType); ok {
		payment.Amount = price
	}
	// Unknown tier: amount stays as-is, the update below is still performed.

	if err := s.paymentRepo.UpdatePaymentAmount(executor, payment.PaymentID, payment.Amount); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ConfirmPayment(paymentID int64) (*models.Payment, error) {
	payment, err := s.confirmOne(s.db, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to confirm payment %d: %w", paymentID, err)
	}
	return payment, nil
}

func (s *paymentService) ConfirmAllPayments(paymentIDs []int64) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin bulk confirmation transaction: %w", err)
	}
	defer tx.Rollback()

	confirmed := 0
	for _, id := range paymentIDs {
		if _, err := s.confirmOne(tx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue // skip payments or contracts that do not resolve
			}
			return 0, fmt.Errorf("failed to confirm payment %d: %w", id, err)
		}
		confirmed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk confirmation transaction: %w", err)
	}
	return confirmed, nil
}

func (s *paymentService) CheckPaymentEligibility(memberID int64) (*models.PaymentEligibilityResult, error) {
	hasContract, err := s.contractRepo.HasContract(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check contract existence: %w", err)
	}
	if !hasContract {
		return &models.PaymentEligibilityResult{Status: models.PaymentStatusNoContract}, nil
	}

	lastPayment, err := s.paymentRepo.GetLastPaymentByMember(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.PaymentEligibilityResult{Status: models.PaymentStatusNoPayment}, nil
		}
		return nil, fmt.Errorf("failed to get last payment: %w", err)
	}

	oneMonthAgo := s.now().AddDate(0, -1, 0)
	if lastPayment.Date.Before(oneMonthAgo) {
		return &models.PaymentEligibilityResult{Status: models.PaymentStatusEligible}, nil
	}

	return &models.PaymentEligibilityResult{
		Status:      models.PaymentStatusPaymentExists,
		PaymentID:   &lastPayment.PaymentID,
		PaymentDate: &lastPayment.Date,
		Amount:      &lastPayment.Amount,
	}, nil
}

func (s *paymentService) GetMembershipTypeForMember(memberID int64) (string, error) {
	contract, err := s.contractRepo.GetLatestContractByStartDate(s.db, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrNoContractForConfirmation
		}
		return "", fmt.Errorf("failed to get contract for member %d: %w", memberID, err)
	}
	return contract.MembershipType, nil
}
