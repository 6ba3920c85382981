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

// --- Custom Service Errors for Class ---
var (
	ErrClassNotFound      = errors.New("gym class not found")
	ErrClassValidation    = errors.New("gym class data validation error")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrClassInUse         = errors.New("class cannot be deleted while members are enrolled")
)

// EnrollmentAction reports which direction a toggle went.
type EnrollmentAction string

const (
	EnrollmentJoined EnrollmentAction = "joined"
	EnrollmentLeft   EnrollmentAction = "left"
)

// --- Class DTOs ---
type CreateClassRequest struct {
	ClassName    string `json:"class_name" binding:"required"`
	InstructorID int64  `json:"instructor_id" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	Time         string `json:"time" binding:"required"` // HH:MM or HH:MM:SS
	Capacity     int    `json:"capacity" binding:"required"`
	Category     string `json:"category" binding:"required"`
}

type UpdateClassRequest struct {
	ClassName    *string `json:"class_name"`
	InstructorID *int64  `json:"instructor_id"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Capacity     *int    `json:"capacity"`
	Category     *string `json:"category"`
}

// --- ClassService Interface ---
type ClassService interface {
	CreateClass(req CreateClassRequest) (*models.GymClass, error)
	GetClassByID(id int64) (*models.GymClass, error)
	GetClasses() ([]models.GymClass, error)
	// GetAvailableClasses lists classes whose enrollment is below capacity.
	// This is display filtering only; ToggleEnrollment does not gate on it.
	GetAvailableClasses() ([]models.GymClass, error)
	UpdateClass(id int64, req UpdateClassRequest) (*models.GymClass, error)
	DeleteClass(id int64) error

	// ToggleEnrollment joins the member to the class, or leaves it when the
	// member is already enrolled. Its own inverse: two calls are a no-op.
	ToggleEnrollment(classID, memberID int64) (EnrollmentAction, error)
	GetJoinedClassIDs(memberID int64) ([]int64, error)

	// GetClassCalendar renders all classes as hour-long calendar events.
	GetClassCalendar() ([]models.CalendarEvent, error)
	// GetMemberCalendar renders the member's joined classes as events.
	GetMemberCalendar(memberID int64) ([]models.CalendarEvent, error)
}

// --- classService Implementation ---
type classService struct {
	classRepo    repositories.ClassRepository
	employeeRepo repositories.EmployeeRepository
	db           *sql.DB
}

// NewClassService creates a new instance of ClassService.
func NewClassService(classRepo repositories.ClassRepository, employeeRepo repositories.EmployeeRepository, db *sql.DB) ClassService {
	return &classService{
		classRepo:    classRepo,
		employeeRepo: employeeRepo,
		db:           db,
	}
}

func (s *classService) validateClassData(name string, capacity int, timeOfDay string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: class name cannot be empty", ErrClassValidation)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", ErrClassValidation)
	}
	if timeOfDay != "" {
		if _, err := parseTimeOfDay(timeOfDay); err != nil {
			return err
		}
	}
	return nil
}

func parseTimeOfDay(value string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("%w: invalid time %q, use HH:MM or HH:MM:SS", ErrClassValidation, value)
}

func (s *classService) CreateClass(req CreateClassRequest) (*models.GymClass, error) {
	if err := s.validateClassData(req.ClassName, req.Capacity, req.Time); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", ErrClassValidation, req.Date)
	}
	timeOfDay, err := parseTimeOfDay(req.Time)
	if err != nil {
		return nil, err
	}

	// The instructor must resolve to a gym employee before scheduling.
	if _, err := s.employeeRepo.GetEmployeeByID(req.InstructorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("failed to look up instructor: %w", err)
	}

	class := &models.GymClass{
		ClassName:    req.ClassName,
		InstructorID: req.InstructorID,
		Date:         date,
		Time:         timeOfDay,
		Capacity:     req.Capacity,
		Category:     req.Category,
	}

	if _, err := s.classRepo.CreateClass(s.db, class); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, fmt.Errorf("failed to create class in repository: %w", err)
	}
	return class, nil
}

func (s *classService) GetClassByID(id int64) (*models.GymClass, error) {
	class, err := s.classRepo.GetClassByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class by ID: %w", err)
	}
	return class, nil
}

func (s *classService) GetClasses() ([]models.GymClass, error) {
	classes, err := s.classRepo.GetClasses()
	if err != nil {
		return nil, fmt.Errorf("failed to get classes: %w", err)
	}
	return classes, nil
}

func (s *classService) GetAvailableClasses() ([]models.GymClass, error) {
	classes, err := s.classRepo.GetAvailableClasses()
	if err != nil {
		return nil, fmt.Errorf("failed to get available classes: %w", err)
	}
	return classes, nil
}

func (s *classService) UpdateClass(id int64, req UpdateClassRequest) (*models.GymClass, error) {
	class, err := s.classRepo.GetClassByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to find class for update: %w", err)
	}

	if req.ClassName != nil {
		class.ClassName = *req.ClassName
	}
	if req.InstructorID != nil {
		if _, err := s.employeeRepo.GetEmployeeByID(*req.InstructorID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInstructorNotFound
			}
			return nil, fmt.Errorf("failed to look up instructor: %w", err)
		}
		class.InstructorID = *req.InstructorID
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", ErrClassValidation, *req.Date)
		}
		class.Date = date
	}
	if req.Time != nil {
		timeOfDay, err := parseTimeOfDay(*req.Time)
		if err != nil {
			return nil, err
		}
		class.Time = timeOfDay
	}
	if req.Capacity != nil {
		class.Capacity = *req.Capacity
	}
	if req.Category != nil {
		class.Category = *req.Category
	}

	if err := s.validateClassData(class.ClassName, class.Capacity, ""); err != nil {
		return nil, err
	}

	if err := s.classRepo.UpdateClass(s.db, class); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to update class in repository: %w", err)
	}
	return class, nil
}

func (s *classService) DeleteClass(id int64) error {
	err := s.classRepo.DeleteClass(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClassNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			return ErrClassInUse
		}
		return fmt.Errorf("failed to delete class: %w", err)
	}
	return nil
}

func (s *classService) ToggleEnrollment(classID, memberID int64) (EnrollmentAction, error) {
	// The class must exist; toggling against a missing class is a NotFound,
	// not a silent join.
	if _, err := s.classRepo.GetClassByID(classID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrClassNotFound
		}
		return "", fmt.Errorf("failed to look up class: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin enrollment transaction: %w", err)
	}
	defer tx.Rollback()

	var action EnrollmentAction
	_, err = s.classRepo.GetEnrollment(tx, classID, memberID)
	switch {
	case err == nil:
		if err := s.classRepo.RemoveEnrollment(tx, classID, memberID); err != nil {
			return "", fmt.Errorf("failed to remove enrollment: %w", err)
		}
		action = EnrollmentLeft
	case errors.Is(err, repositories.ErrNotFound):
		// No capacity gate here: availability filtering is read-side only and
		// a direct join against a full class still succeeds.
		if err := s.classRepo.AddEnrollment(tx, classID, memberID); err != nil {
			return "", fmt.Errorf("failed to add enrollment: %w", err)
		}
		action = EnrollmentJoined
	default:
		return "", fmt.Errorf("failed to look up enrollment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit enrollment transaction: %w", err)
	}
	return action, nil
}

func (s *classService) GetJoinedClassIDs(memberID int64) ([]int64, error) {
	ids, err := s.classRepo.GetJoinedClassIDs(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get joined class ids: %w", err)
	}
	return ids, nil
}

// classEvents renders classes as hour-long calendar events.
func classEvents(classes []models.GymClass, color string) []models.CalendarEvent {
	events := []models.CalendarEvent{}
	for _, class := range classes {
		start := class.Date
		if t, err := time.Parse("15:04:05", class.Time); err == nil {
			start = start.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
		}
		events = append(events, models.CalendarEvent{
			ID:    class.ClassID,
			Title: class.ClassName,
			Start: start,
			End:   start.Add(time.Hour),
			Color: color,
		})
	}
	return events
}

func (s *classService) GetClassCalendar() ([]models.CalendarEvent, error) {
	classes, err := s.classRepo.GetClasses()
	if err != nil {
		return nil, fmt.Errorf("failed to get classes for calendar: %w", err)
	}
	return classEvents(classes, "green"), nil
}

func (s *classService) GetMemberCalendar(memberID int64) ([]models.CalendarEvent, error) {
	classes, err := s.classRepo.GetClassesJoinedByMember(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get joined classes for calendar: %w", err)
	}
	return classEvents(classes, "blue"), nil
}
