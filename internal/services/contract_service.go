package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"
)

// --- Custom Service Errors for Contract ---
var (
	ErrContractNotFound   = errors.New("contract not found")
	ErrContractValidation = errors.New("contract data validation error")
	ErrContractDateFormat = errors.New("invalid date format, please use YYYY-MM-DD")
)

// --- Contract DTOs ---
type CreateContractRequest struct {
	StartDate      string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate        string `json:"end_date" binding:"required"`   // YYYY-MM-DD
	MembershipType string `json:"membership_type" binding:"required"`
	MemberID       int64  `json:"member_id"` // forced to the acting member for member principals
}

type UpdateContractRequest struct {
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	MembershipType *string `json:"membership_type"`
	MemberID       *int64  `json:"member_id"`
}

// --- ContractService Interface ---
type ContractService interface {
	CreateContract(req CreateContractRequest) (*models.Contract, error)
	GetContractByID(id int64) (*models.Contract, error)
	GetContracts() ([]models.Contract, error)
	GetContractsByMember(memberID int64) ([]models.Contract, error)
	UpdateContract(id int64, req UpdateContractRequest) (*models.Contract, error)
	DeleteContract(id int64) error

	// CheckContractStatus derives the member's status from the contract with
	// the latest end date: NoContract, RenewSoon, Expired or Active.
	CheckContractStatus(memberID int64) (*models.ContractStatusResult, error)
}

// --- contractService Implementation ---
type contractService struct {
	contractRepo repositories.ContractRepository
	db           *sql.DB
	now          func() time.Time
}

// NewContractService creates a new instance of ContractService.
func NewContractService(repo repositories.ContractRepository, db *sql.DB) ContractService {
	return &contractService{
		contractRepo: repo,
		db:           db,
		now:          time.Now,
	}
}

// ClassifyContractStatus classifies a contract end date against a reference
// time. End dates inside (now, now+1 month) are RenewSoon, end dates at or
// before now are Expired, anything later is Active.
func ClassifyContractStatus(endDate, now time.Time) string {
	oneMonthOut := now.AddDate(0, 1, 0)
	if endDate.After(now) && endDate.Before(oneMonthOut) {
		return models.ContractStatusRenewSoon
	}
	if !endDate.After(now) {
		return models.ContractStatusExpired
	}
	return models.ContractStatusActive
}

func (s *contractService) CheckContractStatus(memberID int64) (*models.ContractStatusResult, error) {
	contract, err := s.contractRepo.GetLatestContractByEndDate(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.ContractStatusResult{Status: models.ContractStatusNone}, nil
		}
		return nil, fmt.Errorf("failed to get latest contract: %w", err)
	}

	endDate := contract.EndDate
	return &models.ContractStatusResult{
		Status:  ClassifyContractStatus(endDate, s.now()),
		EndDate: &endDate,
	}, nil
}

func parseContractDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, ErrContractDateFormat
	}
	return date, nil
}

func (s *contractService) validateMembershipType(membershipType string) error {
	// Any non-empty tier string is stored; only the known tiers price at
	// confirmation time.
	if strings.TrimSpace(membershipType) == "" {
		return fmt.Errorf("%w: membership type cannot be empty", ErrContractValidation)
	}
	return nil
}

func (s *contractService) CreateContract(req CreateContractRequest) (*models.Contract, error) {
	if err := s.validateMembershipType(req.MembershipType); err != nil {
		return nil, err
	}
	startDate, err := parseContractDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseContractDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if req.MemberID == 0 {
		return nil, fmt.Errorf("%w: member id is required", ErrContractValidation)
	}

	contract := &models.Contract{
		StartDate:      startDate,
		EndDate:        endDate,
		MembershipType: req.MembershipType,
		MemberID:       req.MemberID,
	}

	if _, err := s.contractRepo.CreateContract(s.db, contract); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to create contract in repository: %w", err)
	}
	return contract, nil
}

func (s *contractService) GetContractByID(id int64) (*models.Contract, error) {
	contract, err := s.contractRepo.GetContractByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to get contract by ID: %w", err)
	}
	return contract, nil
}

func (s *contractService) GetContracts() ([]models.Contract, error) {
	contracts, err := s.contractRepo.GetContracts()
	if err != nil {
		return nil, fmt.Errorf("failed to get contracts: %w", err)
	}
	return contracts, nil
}

func (s *contractService) GetContractsByMember(memberID int64) ([]models.Contract, error) {
	contracts, err := s.contractRepo.GetContractsByMember(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contracts for member: %w", err)
	}
	return contracts, nil
}

func (s *contractService) UpdateContract(id int64, req UpdateContractRequest) (*models.Contract, error) {
	contract, err := s.contractRepo.GetContractByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to find contract for update: %w", err)
	}

	if req.StartDate != nil {
		startDate, err := parseContractDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		contract.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseContractDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		contract.EndDate = endDate
	}
	if req.MembershipType != nil {
		if err := s.validateMembershipType(*req.MembershipType); err != nil {
			return nil, err
		}
		contract.MembershipType = *req.MembershipType
	}
	if req.MemberID != nil {
		contract.MemberID = *req.MemberID
	}

	if err := s.contractRepo.UpdateContract(s.db, contract); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to update contract in repository: %w", err)
	}
	return contract, nil
}

func (s *contractService) DeleteContract(id int64) error {
	err := s.contractRepo.DeleteContract(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrContractNotFound
		}
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	return nil
}
