package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_backend/internal/models"

	"github.com/lib/pq"
)

// AttendanceRepository defines the interface for gym attendance database
// operations. An open visit is a row whose check_out is NULL; it scans to the
// zero time on the model.
type AttendanceRepository interface {
	CreateAttendance(executor SQLExecutor, attendance *models.GymAttendance) (int64, error)
	GetAttendanceByID(id int64) (*models.GymAttendance, error)
	GetAttendances() ([]models.GymAttendance, error)
	GetOpenAttendanceForDay(executor SQLExecutor, memberID int64, day time.Time) (*models.GymAttendance, error)
	GetAttendanceForDay(executor SQLExecutor, memberID int64, day time.Time) (*models.GymAttendance, error)
	UpdateAttendance(executor SQLExecutor, attendance *models.GymAttendance) error
	SetCheckOut(executor SQLExecutor, attendanceID int64, checkOut time.Time) error
	DeleteAttendance(executor SQLExecutor, id int64) error
	CountCheckInsForDay(day time.Time) (int, error)
}

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row interface{ Scan(...interface{}) error }) (*models.GymAttendance, error) {
	a := &models.GymAttendance{}
	var checkOut sql.NullTime
	err := row.Scan(&a.AttendanceID, &a.MemberID, &a.Date, &a.CheckIn, &checkOut)
	if err != nil {
		return nil, err
	}
	if checkOut.Valid {
		a.CheckOut = checkOut.Time
	}
	return a, nil
}

// checkOutArg maps the zero time back to NULL on write.
func checkOutArg(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// CreateAttendance inserts a new attendance row.
func (r *attendanceRepository) CreateAttendance(executor SQLExecutor, attendance *models.GymAttendance) (int64, error) {
	query := `INSERT INTO gym_attendances (member_id, date, check_in, check_out)
	          VALUES ($1, $2, $3, $4)
	          RETURNING attendance_id`

	err := executor.QueryRow(query,
		attendance.MemberID, attendance.Date, attendance.CheckIn, checkOutArg(attendance.CheckOut),
	).Scan(&attendance.AttendanceID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return 0, fmt.Errorf("%w: member ID %d does not exist", ErrNotFound, attendance.MemberID)
		}
		return 0, fmt.Errorf("%w: creating attendance: %v", ErrDatabaseError, err)
	}
	return attendance.AttendanceID, nil
}

// GetAttendanceByID retrieves an attendance row by its ID.
func (r *attendanceRepository) GetAttendanceByID(id int64) (*models.GymAttendance, error) {
	query := `SELECT attendance_id, member_id, date, check_in, check_out
	          FROM gym_attendances WHERE attendance_id = $1`
	attendance, err := scanAttendance(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting attendance by ID %d: %v", ErrDatabaseError, id, err)
	}
	return attendance, nil
}

// GetAttendances retrieves all attendance rows with member names joined.
func (r *attendanceRepository) GetAttendances() ([]models.GymAttendance, error) {
	attendances := []models.GymAttendance{}
	query := `SELECT a.attendance_id, a.member_id, a.date, a.check_in, a.check_out,
	                 m.first_name || ' ' || m.last_name AS member_name
	          FROM gym_attendances a
	          JOIN members m ON m.person_id = a.member_id
	          ORDER BY a.date DESC, a.check_in DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying attendances: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.GymAttendance
		var checkOut sql.NullTime
		var memberName string
		if err := rows.Scan(&a.AttendanceID, &a.MemberID, &a.Date, &a.CheckIn, &checkOut, &memberName); err != nil {
			return nil, fmt.Errorf("%w: scanning attendance: %v", ErrDatabaseError, err)
		}
		if checkOut.Valid {
			a.CheckOut = checkOut.Time
		}
		a.MemberName = &memberName
		attendances = append(attendances, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating attendance rows: %v", ErrDatabaseError, err)
	}
	return attendances, nil
}

// GetOpenAttendanceForDay returns the member's attendance row for the given
// calendar day whose checkout is still unset.
func (r *attendanceRepository) GetOpenAttendanceForDay(executor SQLExecutor, memberID int64, day time.Time) (*models.GymAttendance, error) {
	query := `SELECT attendance_id, member_id, date, check_in, check_out
	          FROM gym_attendances
	          WHERE member_id = $1 AND date = $2 AND check_out IS NULL
	          LIMIT 1`
	attendance, err := scanAttendance(executor.QueryRow(query, memberID, day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting open attendance for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return attendance, nil
}

// GetAttendanceForDay returns the member's most recent attendance row for the
// given calendar day regardless of checkout state.
func (r *attendanceRepository) GetAttendanceForDay(executor SQLExecutor, memberID int64, day time.Time) (*models.GymAttendance, error) {
	query := `SELECT attendance_id, member_id, date, check_in, check_out
	          FROM gym_attendances
	          WHERE member_id = $1 AND date = $2
	          ORDER BY check_in DESC LIMIT 1`
	attendance, err := scanAttendance(executor.QueryRow(query, memberID, day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting attendance for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return attendance, nil
}

// UpdateAttendance updates an existing attendance row.
func (r *attendanceRepository) UpdateAttendance(executor SQLExecutor, attendance *models.GymAttendance) error {
	query := `UPDATE gym_attendances SET
	            member_id = $1, date = $2, check_in = $3, check_out = $4
	          WHERE attendance_id = $5`

	result, err := executor.Exec(query,
		attendance.MemberID, attendance.Date, attendance.CheckIn,
		checkOutArg(attendance.CheckOut), attendance.AttendanceID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating attendance ID %d: %v", ErrDatabaseError, attendance.AttendanceID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for attendance ID %d: %v", ErrDatabaseError, attendance.AttendanceID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCheckOut overwrites the checkout timestamp of an attendance row.
func (r *attendanceRepository) SetCheckOut(executor SQLExecutor, attendanceID int64, checkOut time.Time) error {
	result, err := executor.Exec(`UPDATE gym_attendances SET check_out = $1 WHERE attendance_id = $2`, checkOut, attendanceID)
	if err != nil {
		return fmt.Errorf("%w: setting checkout for attendance ID %d: %v", ErrDatabaseError, attendanceID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for attendance ID %d: %v", ErrDatabaseError, attendanceID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAttendance removes an attendance row.
func (r *attendanceRepository) DeleteAttendance(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM gym_attendances WHERE attendance_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting attendance ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting attendance ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCheckInsForDay returns the number of attendance rows for a calendar day.
func (r *attendanceRepository) CountCheckInsForDay(day time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM gym_attendances WHERE date = $1`, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting check-ins: %v", ErrDatabaseError, err)
	}
	return count, nil
}
