package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Employee ---
var (
	ErrEmployeeNotFound   = errors.New("gym employee not found")
	ErrEmployeeValidation = errors.New("gym employee data validation error")
	ErrEmployeeInUse      = errors.New("employee cannot be deleted while instructing classes")
)

// --- Employee DTOs ---
type CreateEmployeeRequest struct {
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	ContactDetails string  `json:"contact_details" binding:"required"`
	Username       string  `json:"username" binding:"required"`
	Password       string  `json:"password" binding:"required,min=8"`
	Speciality     *string `json:"speciality"`
	Certification  *string `json:"certification"`
}

type UpdateEmployeeRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	ContactDetails *string `json:"contact_details"`
	Username       *string `json:"username"`
	Speciality     *string `json:"speciality"`
	Certification  *string `json:"certification"`
	OldPassword    *string `json:"old_password"`
	NewPassword    *string `json:"new_password"`
}

// --- EmployeeService Interface ---
type EmployeeService interface {
	CreateEmployee(req CreateEmployeeRequest) (*models.GymEmployee, error)
	GetEmployeeByID(id int64) (*models.GymEmployee, error)
	GetEmployees() ([]models.GymEmployee, error)
	GetInstructors() ([]repositories.InstructorOption, error)
	UpdateEmployee(id int64, req UpdateEmployeeRequest) (*models.GymEmployee, error)
	DeleteEmployee(id int64) error
}

// --- employeeService Implementation ---
type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	memberRepo   repositories.MemberRepository
	db           *sql.DB
}

// NewEmployeeService creates a new instance of EmployeeService. The member
// repository is needed for the cross-namespace username check.
func NewEmployeeService(employeeRepo repositories.EmployeeRepository, memberRepo repositories.MemberRepository, db *sql.DB) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		memberRepo:   memberRepo,
		db:           db,
	}
}

func (s *employeeService) CreateEmployee(req CreateEmployeeRequest) (*models.GymEmployee, error) {
	if err := validatePersonFields(req.FirstName, req.LastName, req.ContactDetails, req.Username); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmployeeValidation, err)
	}

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

	employee := &models.GymEmployee{
		Person: models.Person{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			ContactDetails: req.ContactDetails,
			Username:       req.Username,
			PasswordHash:   string(hashedPasswordBytes),
		},
		Speciality:    req.Speciality,
		Certification: req.Certification,
	}

	if _, err := s.employeeRepo.CreateEmployee(s.db, employee); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create employee in repository: %w", err)
	}
	employee.PasswordHash = ""
	return employee, nil
}

func (s *employeeService) GetEmployeeByID(id int64) (*models.GymEmployee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee by ID: %w", err)
	}
	employee.PasswordHash = ""
	return employee, nil
}

func (s *employeeService) GetEmployees() ([]models.GymEmployee, error) {
	employees, err := s.employeeRepo.GetEmployees()
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	for i := range employees {
		employees[i].PasswordHash = ""
	}
	return employees, nil
}

func (s *employeeService) GetInstructors() ([]repositories.InstructorOption, error) {
	instructors, err := s.employeeRepo.GetInstructors()
	if err != nil {
		return nil, fmt.Errorf("failed to get instructors: %w", err)
	}
	return instructors, nil
}

func (s *employeeService) UpdateEmployee(id int64, req UpdateEmployeeRequest) (*models.GymEmployee, error) {
	employee, err := s.employeeRepo.GetEmployeeByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee for update: %w", err)
	}

	if req.Username != nil && *req.Username != employee.Username {
		taken, err := s.memberRepo.IsUsernameTaken(*req.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if taken {
			return nil, ErrUsernameExists
		}
		employee.Username = *req.Username
	}

	if req.OldPassword != nil && *req.OldPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(*req.OldPassword)); err != nil {
			return nil, ErrOldPasswordInvalid
		}
		if req.NewPassword != nil && *req.NewPassword != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash new password: %w", err)
			}
			if err := s.employeeRepo.UpdatePassword(s.db, id, string(hashed)); err != nil {
				return nil, fmt.Errorf("failed to update password: %w", err)
			}
		}
	}

	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.ContactDetails != nil {
		employee.ContactDetails = *req.ContactDetails
	}
	if req.Speciality != nil {
		employee.Speciality = req.Speciality
	}
	if req.Certification != nil {
		employee.Certification = req.Certification
	}

	if err := validatePersonFields(employee.FirstName, employee.LastName, employee.ContactDetails, employee.Username); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmployeeValidation, err)
	}

	if err := s.employeeRepo.UpdateEmployee(s.db, employee); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to update employee in repository: %w", err)
	}
	employee.PasswordHash = ""
	return employee, nil
}

func (s *employeeService) DeleteEmployee(id int64) error {
	err := s.employeeRepo.DeleteEmployee(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrEmployeeInUse
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}
