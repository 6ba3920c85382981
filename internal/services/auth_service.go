package services

import (
	"errors"
	"fmt"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"
	"gym_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors for Auth ---
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnknownRole        = errors.New("unknown role")
)

// --- Auth DTOs ---
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"user_type" binding:"required"` // Member or GymEmployee
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	PersonID    int64  `json:"person_id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
}

// --- AuthService Interface ---
type AuthService interface {
	// Login verifies credentials within the requested role's namespace and
	// issues an access token. A member login additionally runs the gym
	// check-in flow; an employee login touches no attendance.
	Login(req LoginRequest) (*LoginResponse, error)
	// Logout closes today's attendance for a member principal. Employee
	// logout is a no-op on the server.
	Logout(principal models.Principal) error
}

// --- authService Implementation ---
type authService struct {
	memberRepo        repositories.MemberRepository
	employeeRepo      repositories.EmployeeRepository
	attendanceService AttendanceService
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(memberRepo repositories.MemberRepository, employeeRepo repositories.EmployeeRepository, attendanceService AttendanceService) AuthService {
	return &authService{
		memberRepo:        memberRepo,
		employeeRepo:      employeeRepo,
		attendanceService: attendanceService,
	}
}

func (s *authService) Login(req LoginRequest) (*LoginResponse, error) {
	var person models.Person

	switch req.Role {
	case models.RoleMember:
		member, err := s.memberRepo.GetMemberByUsername(req.Username)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("failed to look up member: %w", err)
		}
		person = member.Person
	case models.RoleGymEmployee:
		employee, err := s.employeeRepo.GetEmployeeByUsername(req.Username)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, fmt.Errorf("failed to look up employee: %w", err)
		}
		person = employee.Person
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, req.Role)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Logging in as a member is the gym visit: attendance is recorded here,
	// not by a separate endpoint.
	if req.Role == models.RoleMember {
		if err := s.attendanceService.CheckInMember(person.PersonID); err != nil {
			return nil, fmt.Errorf("failed to record check-in: %w", err)
		}
	}

	token, err := utils.GenerateAccessToken(person.PersonID, person.Username, req.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &LoginResponse{
		AccessToken: token,
		PersonID:    person.PersonID,
		Username:    person.Username,
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		Role:        req.Role,
	}, nil
}

func (s *authService) Logout(principal models.Principal) error {
	if !principal.IsMember() {
		return nil
	}
	if err := s.attendanceService.CloseAttendance(principal.PersonID); err != nil {
		return fmt.Errorf("failed to close attendance on logout: %w", err)
	}
	return nil
}
