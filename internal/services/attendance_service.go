package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"
)

// --- Custom Service Errors for Attendance ---
var (
	ErrAttendanceNotFound          = errors.New("attendance record not found")
	ErrAttendanceInvalid           = errors.New("attendance data validation error")
	ErrMemberNotFoundForAttendance = errors.New("member not found for attendance")
)

// StaleVisitDuration is the assumed length of a visit that was never checked
// out: the stale row is closed at check-in plus this duration.
const StaleVisitDuration = time.Hour

// --- Attendance DTOs ---
type CreateAttendanceRequest struct {
	MemberID int64   `json:"member_id" binding:"required"`
	Date     string  `json:"date" binding:"required"` // YYYY-MM-DD
	CheckIn  string  `json:"check_in" binding:"required"` // RFC3339
	CheckOut *string `json:"check_out"`                   // RFC3339, empty = open visit
}

type UpdateAttendanceRequest struct {
	MemberID *int64  `json:"member_id"`
	Date     *string `json:"date"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
}

// --- AttendanceService Interface ---
type AttendanceService interface {
	// CheckInMember runs the login-time attendance flow for a member: close a
	// stale open visit for today at check-in + 1h, then insert a fresh row
	// with check-in and checkout both set to now. Both steps share one tx.
	CheckInMember(memberID int64) error
	// CloseAttendance sets today's attendance checkout to now. Overwrites
	// whatever checkout value the row carried. Missing row is not an error.
	CloseAttendance(memberID int64) error

	GetAttendances() ([]models.GymAttendance, error)
	GetAttendanceByID(id int64) (*models.GymAttendance, error)
	CreateAttendance(req CreateAttendanceRequest) (*models.GymAttendance, error)
	UpdateAttendance(id int64, req UpdateAttendanceRequest) (*models.GymAttendance, error)
	DeleteAttendance(id int64) error
}

// --- attendanceService Implementation ---
type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	db             *sql.DB
	now            func() time.Time
}

// NewAttendanceService creates a new instance of AttendanceService.
func NewAttendanceService(repo repositories.AttendanceRepository, db *sql.DB) AttendanceService {
	return &attendanceService{
		attendanceRepo: repo,
		db:             db,
		now:            time.Now,
	}
}

// startOfDay truncates a timestamp to its calendar day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *attendanceService) CheckInMember(memberID int64) error {
	now := s.now()
	today := startOfDay(now)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin check-in transaction: %w", err)
	}
	defer tx.Rollback()

	// A visit left open from an earlier login today gets closed at
	// check-in + 1h before the new visit starts.
	stale, err := s.attendanceRepo.GetOpenAttendanceForDay(tx, memberID, today)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up open attendance: %w", err)
	}
	if stale != nil {
		if err := s.attendanceRepo.SetCheckOut(tx, stale.AttendanceID, stale.CheckIn.Add(StaleVisitDuration)); err != nil {
			return fmt.Errorf("failed to close stale attendance: %w", err)
		}
	}

	// The fresh row starts already closed at creation time; logout overwrites
	// the checkout with the real departure when it happens.
	attendance := &models.GymAttendance{
		MemberID: memberID,
		Date:     today,
		CheckIn:  now,
		CheckOut: now,
	}
	if _, err := s.attendanceRepo.CreateAttendance(tx, attendance); err != nil {
		return fmt.Errorf("failed to create attendance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit check-in transaction: %w", err)
	}
	return nil
}

func (s *attendanceService) CloseAttendance(memberID int64) error {
	now := s.now()
	today := startOfDay(now)

	attendance, err := s.attendanceRepo.GetAttendanceForDay(s.db, memberID, today)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil // nothing to close
		}
		return fmt.Errorf("failed to look up attendance for checkout: %w", err)
	}

	if err := s.attendanceRepo.SetCheckOut(s.db, attendance.AttendanceID, now); err != nil {
		return fmt.Errorf("failed to set checkout: %w", err)
	}
	return nil
}

func (s *attendanceService) GetAttendances() ([]models.GymAttendance, error) {
	attendances, err := s.attendanceRepo.GetAttendances()
	if err != nil {
		return nil, fmt.Errorf("failed to get attendances: %w", err)
	}
	return attendances, nil
}

func (s *attendanceService) GetAttendanceByID(id int64) (*models.GymAttendance, error) {
	attendance, err := s.attendanceRepo.GetAttendanceByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return attendance, nil
}

func parseDay(value string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", ErrAttendanceInvalid, value)
	}
	return day, nil
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q, use RFC3339", ErrAttendanceInvalid, value)
	}
	return ts, nil
}

func (s *attendanceService) CreateAttendance(req CreateAttendanceRequest) (*models.GymAttendance, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	checkIn, err := parseTimestamp(req.CheckIn)
	if err != nil {
		return nil, err
	}

	attendance := &models.GymAttendance{
		MemberID: req.MemberID,
		Date:     day,
		CheckIn:  checkIn,
	}
	if req.CheckOut != nil && *req.CheckOut != "" {
		checkOut, err := parseTimestamp(*req.CheckOut)
		if err != nil {
			return nil, err
		}
		attendance.CheckOut = checkOut
	}

	if _, err := s.attendanceRepo.CreateAttendance(s.db, attendance); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFoundForAttendance
		}
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}
	return attendance, nil
}

func (s *attendanceService) UpdateAttendance(id int64, req UpdateAttendanceRequest) (*models.GymAttendance, error) {
	attendance, err := s.attendanceRepo.GetAttendanceByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to find attendance for update: %w", err)
	}

	if req.MemberID != nil {
		attendance.MemberID = *req.MemberID
	}
	if req.Date != nil {
		day, err := parseDay(*req.Date)
		if err != nil {
			return nil, err
		}
		attendance.Date = day
	}
	if req.CheckIn != nil {
		checkIn, err := parseTimestamp(*req.CheckIn)
		if err != nil {
			return nil, err
		}
		attendance.CheckIn = checkIn
	}
	if req.CheckOut != nil {
		if *req.CheckOut == "" {
			attendance.CheckOut = time.Time{} // reopen the visit
		} else {
			checkOut, err := parseTimestamp(*req.CheckOut)
			if err != nil {
				return nil, err
			}
			attendance.CheckOut = checkOut
		}
	}

	if err := s.attendanceRepo.UpdateAttendance(s.db, attendance); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}
	return attendance, nil
}

func (s *attendanceService) DeleteAttendance(id int64) error {
	err := s.attendanceRepo.DeleteAttendance(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}
