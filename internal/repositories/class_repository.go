package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_backend/internal/models"

	"github.com/lib/pq"
)

// ClassRepository defines the interface for gym class and enrollment database
// operations.
type ClassRepository interface {
	CreateClass(executor SQLExecutor, class *models.GymClass) (int64, error)
	GetClassByID(id int64) (*models.GymClass, error)
	GetClasses() ([]models.GymClass, error)
	GetAvailableClasses() ([]models.GymClass, error)
	GetClassesJoinedByMember(memberID int64) ([]models.GymClass, error)
	UpdateClass(executor SQLExecutor, class *models.GymClass) error
	DeleteClass(executor SQLExecutor, id int64) error
	CountUpcomingClasses(days int) (int, error)

	GetEnrollment(executor SQLExecutor, classID, memberID int64) (*models.GymClassAttendance, error)
	AddEnrollment(executor SQLExecutor, classID, memberID int64) error
	RemoveEnrollment(executor SQLExecutor, classID, memberID int64) error
	GetJoinedClassIDs(memberID int64) ([]int64, error)
}

type classRepository struct {
	db *sql.DB
}

// NewClassRepository creates a new instance of ClassRepository.
func NewClassRepository(db *sql.DB) ClassRepository {
	return &classRepository{db: db}
}

// CreateClass inserts a new gym class.
func (r *classRepository) CreateClass(executor SQLExecutor, class *models.GymClass) (int64, error) {
	query := `INSERT INTO gym_classes (class_name, instructor_id, date, time, capacity, category)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING class_id`

	err := executor.QueryRow(query,
		class.ClassName, class.InstructorID, class.Date, class.Time, class.Capacity, class.Category,
	).Scan(&class.ClassID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return 0, fmt.Errorf("%w: instructor ID %d does not exist", ErrNotFound, class.InstructorID)
		}
		return 0, fmt.Errorf("%w: creating class: %v", ErrDatabaseError, err)
	}
	return class.ClassID, nil
}

// GetClassByID retrieves a class by its ID.
func (r *classRepository) GetClassByID(id int64) (*models.GymClass, error) {
	class := &models.GymClass{}
	query := `SELECT class_id, class_name, instructor_id, date, time, capacity, category
	          FROM gym_classes WHERE class_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&class.ClassID, &class.ClassName, &class.InstructorID,
		&class.Date, &class.Time, &class.Capacity, &class.Category,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting class by ID %d: %v", ErrDatabaseError, id, err)
	}
	return class, nil
}

func (r *classRepository) queryClasses(query string, args ...interface{}) ([]models.GymClass, error) {
	classes := []models.GymClass{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying classes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var class models.GymClass
		var instructorName string
		var enrolled int
		if err := rows.Scan(
			&class.ClassID, &class.ClassName, &class.InstructorID,
			&class.Date, &class.Time, &class.Capacity, &class.Category,
			&instructorName, &enrolled,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning class: %v", ErrDatabaseError, err)
		}
		class.InstructorName = &instructorName
		class.EnrolledCount = &enrolled
		classes = append(classes, class)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating class rows: %v", ErrDatabaseError, err)
	}
	return classes, nil
}

const classListSelect = `
	SELECT g.class_id, g.class_name, g.instructor_id, g.date, g.time, g.capacity, g.category,
	       e.first_name || ' ' || e.last_name AS instructor_name,
	       (SELECT COUNT(*) FROM gym_class_attendances gca WHERE gca.class_id = g.class_id) AS enrolled_count
	FROM gym_classes g
	JOIN gym_employees e ON e.person_id = g.instructor_id`

// GetClasses retrieves all classes with instructor names and enrollment counts.
func (r *classRepository) GetClasses() ([]models.GymClass, error) {
	return r.queryClasses(classListSelect + ` ORDER BY g.date ASC, g.time ASC`)
}

// GetAvailableClasses retrieves classes whose enrollment count is below
// capacity. Read-side filtering only; joining is not capacity-gated.
func (r *classRepository) GetAvailableClasses() ([]models.GymClass, error) {
	query := classListSelect + `
	WHERE (SELECT COUNT(*) FROM gym_class_attendances gca WHERE gca.class_id = g.class_id) < g.capacity
	ORDER BY g.date ASC, g.time ASC`
	return r.queryClasses(query)
}

// GetClassesJoinedByMember retrieves the classes a member is enrolled in.
func (r *classRepository) GetClassesJoinedByMember(memberID int64) ([]models.GymClass, error) {
	classes := []models.GymClass{}
	query := `SELECT g.class_id, g.class_name, g.instructor_id, g.date, g.time, g.capacity, g.category
	          FROM gym_class_attendances gca
	          JOIN gym_classes g ON g.class_id = gca.class_id
	          WHERE gca.member_id = $1
	          ORDER BY g.date ASC, g.time ASC`

	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying joined classes for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var class models.GymClass
		if err := rows.Scan(
			&class.ClassID, &class.ClassName, &class.InstructorID,
			&class.Date, &class.Time, &class.Capacity, &class.Category,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning joined class: %v", ErrDatabaseError, err)
		}
		classes = append(classes, class)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating joined class rows: %v", ErrDatabaseError, err)
	}
	return classes, nil
}

// UpdateClass updates an existing class.
func (r *classRepository) UpdateClass(executor SQLExecutor, class *models.GymClass) error {
	query := `UPDATE gym_classes SET
	            class_name = $1, instructor_id = $2, date = $3, time = $4, capacity = $5, category = $6
	          WHERE class_id = $7`

	result, err := executor.Exec(query,
		class.ClassName, class.InstructorID, class.Date, class.Time,
		class.Capacity, class.Category, class.ClassID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: instructor ID %d does not exist", ErrNotFound, class.InstructorID)
		}
		return fmt.Errorf("%w: updating class ID %d: %v", ErrDatabaseError, class.ClassID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating class ID %d: %v", ErrDatabaseError, class.ClassID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClass removes a class. Deletion is restricted while enrollments exist.
func (r *classRepository) DeleteClass(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM gym_classes WHERE class_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: class ID %d has enrollments (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting class ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting class ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUpcomingClasses returns the number of classes scheduled within the next
// given number of days.
func (r *classRepository) CountUpcomingClasses(days int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM gym_classes
	          WHERE date >= CURRENT_DATE AND date < CURRENT_DATE + $1 * INTERVAL '1 day'`
	err := r.db.QueryRow(query, days).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting upcoming classes: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// GetEnrollment looks up the enrollment row for a (class, member) pair.
func (r *classRepository) GetEnrollment(executor SQLExecutor, classID, memberID int64) (*models.GymClassAttendance, error) {
	enrollment := &models.GymClassAttendance{}
	query := `SELECT class_id, member_id FROM gym_class_attendances
	          WHERE class_id = $1 AND member_id = $2`

	err := executor.QueryRow(query, classID, memberID).Scan(&enrollment.ClassID, &enrollment.MemberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting enrollment (class %d, member %d): %v", ErrDatabaseError, classID, memberID, err)
	}
	return enrollment, nil
}

// AddEnrollment inserts an enrollment row. The (class_id, member_id) unique
// key rejects duplicate joins at the data layer.
func (r *classRepository) AddEnrollment(executor SQLExecutor, classID, memberID int64) error {
	_, err := executor.Exec(`INSERT INTO gym_class_attendances (class_id, member_id) VALUES ($1, $2)`, classID, memberID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: member %d already enrolled in class %d", ErrDuplicateKey, memberID, classID)
			}
			if pqErr.Code == "23503" {
				return fmt.Errorf("%w: class %d or member %d does not exist", ErrNotFound, classID, memberID)
			}
		}
		return fmt.Errorf("%w: adding enrollment (class %d, member %d): %v", ErrDatabaseError, classID, memberID, err)
	}
	return nil
}

// RemoveEnrollment deletes an enrollment row.
func (r *classRepository) RemoveEnrollment(executor SQLExecutor, classID, memberID int64) error {
	result, err := executor.Exec(`DELETE FROM gym_class_attendances WHERE class_id = $1 AND member_id = $2`, classID, memberID)
	if err != nil {
		return fmt.Errorf("%w: removing enrollment (class %d, member %d): %v", ErrDatabaseError, classID, memberID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for enrollment (class %d, member %d): %v", ErrDatabaseError, classID, memberID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetJoinedClassIDs returns the ids of classes the member is enrolled in.
func (r *classRepository) GetJoinedClassIDs(memberID int64) ([]int64, error) {
	ids := []int64{}
	rows, err := r.db.Query(`SELECT class_id FROM gym_class_attendances WHERE member_id = $1`, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying joined class ids for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scanning class id: %v", ErrDatabaseError, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating class id rows: %v", ErrDatabaseError, err)
	}
	return ids, nil
}
