package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Member ---
var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberValidation   = errors.New("member data validation error")
	ErrUsernameExists     = errors.New("username already exists")
	ErrOldPasswordInvalid = errors.New("old password is incorrect")
	ErrMemberInUse        = errors.New("member cannot be deleted while referenced by other records")
	ErrDateFormat         = errors.New("invalid date format, please use YYYY-MM-DD")
)

// --- Member DTOs ---
type CreateMemberRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	ContactDetails string `json:"contact_details" binding:"required"`
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	DateOfBirth    string `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
}

type UpdateMemberRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	ContactDetails *string `json:"contact_details"`
	Username       *string `json:"username"`
	// Password change requires the current password; date of birth is fixed.
	OldPassword *string `json:"old_password"`
	NewPassword *string `json:"new_password"`
}

// --- MemberService Interface ---
type MemberService interface {
	CreateMember(req CreateMemberRequest) (*models.Member, error)
	GetMemberByID(id int64) (*models.Member, error)
	GetMembers() ([]models.Member, error)
	UpdateMember(id int64, req UpdateMemberRequest) (*models.Member, error)
	DeleteMember(id int64) error
	IsUsernameTaken(username string) (bool, error)
}

// --- memberService Implementation ---
type memberService struct {
	memberRepo repositories.MemberRepository
	db         *sql.DB
}

// NewMemberService creates a new instance of MemberService.
func NewMemberService(repo repositories.MemberRepository, db *sql.DB) MemberService {
	return &memberService{
		memberRepo: repo,
		db:         db,
	}
}

func validatePersonFields(firstName, lastName, contactDetails, username string) error {
	if strings.TrimSpace(firstName) == "" {
		return fmt.Errorf("%w: first name cannot be empty", ErrMemberValidation)
	}
	if strings.TrimSpace(lastName) == "" {
		return fmt.Errorf("%w: last name cannot be empty", ErrMemberValidation)
	}
	if strings.TrimSpace(contactDetails) == "" {
		return fmt.Errorf("%w: contact details cannot be empty", ErrMemberValidation)
	}
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username cannot be empty", ErrMemberValidation)
	}
	return nil
}

func (s *memberService) CreateMember(req CreateMemberRequest) (*models.Member, error) {
	if err := validatePersonFields(req.FirstName, req.LastName, req.ContactDetails, req.Username); err != nil {
		return nil, err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, ErrDateFormat
	}
	if dob.After(time.Now()) {
		return nil, fmt.Errorf("%w: date of birth cannot be in the future", ErrMemberValidation)
	}

	// Usernames are unique across both members and employees; the per-table
	// constraint alone cannot enforce that.
	taken, err := s.memberRepo.IsUsernameTaken(req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if taken {
		return nil, ErrUsernameExists
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &models.Member{
		Person: models.Person{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			ContactDetails: req.ContactDetails,
			Username:       req.Username,
			PasswordHash:   string(hashedPasswordBytes),
		},
		DateOfBirth: dob,
	}

	if _, err := s.memberRepo.CreateMember(s.db, member); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create member in repository: %w", err)
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *memberService) GetMemberByID(id int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *memberService) GetMembers() ([]models.Member, error) {
	members, err := s.memberRepo.GetMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	for i := range members {
		members[i].PasswordHash = ""
	}
	return members, nil
}

func (s *memberService) UpdateMember(id int64, req UpdateMemberRequest) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member for update: %w", err)
	}

	if req.Username != nil && *req.Username != member.Username {
		taken, err := s.memberRepo.IsUsernameTaken(*req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if taken {
			return nil, ErrUsernameExists
		}
		member.Username = *req.Username
	}

	if req.OldPassword != nil && *req.OldPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(*req.OldPassword)); err != nil {
			return nil, ErrOldPasswordInvalid
		}
		if req.NewPassword != nil && *req.NewPassword != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash new password: %w", err)
			}
			if err := s.memberRepo.UpdatePassword(s.db, id, string(hashed)); err != nil {
				return nil, fmt.Errorf("failed to update password: %w", err)
			}
		}
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.ContactDetails != nil {
		member.ContactDetails = *req.ContactDetails
	}

	if err := validatePersonFields(member.FirstName, member.LastName, member.ContactDetails, member.Username); err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdateMember(s.db, member); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member in repository: %w", err)
	}
	member.PasswordHash = ""
	return member, nil
}

func (s *memberService) DeleteMember(id int64) error {
	_, err := s.memberRepo.GetMemberByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member for deletion: %w", err)
	}

	err = s.memberRepo.DeleteMember(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrMemberInUse
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

func (s *memberService) IsUsernameTaken(username string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, fmt.Errorf("%w: username is required", ErrMemberValidation)
	}
	taken, err := s.memberRepo.IsUsernameTaken(username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return taken, nil
}
