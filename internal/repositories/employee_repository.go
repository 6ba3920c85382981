package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_backend/internal/models"

	"github.com/lib/pq"
)

// InstructorOption is a minimal employee row for class scheduling forms.
type InstructorOption struct {
	PersonID  int64  `json:"person_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// EmployeeRepository defines the interface for gym employee database operations.
type EmployeeRepository interface {
	CreateEmployee(executor SQLExecutor, employee *models.GymEmployee) (int64, error)
	GetEmployeeByID(id int64) (*models.GymEmployee, error)
	GetEmployeeByUsername(username string) (*models.GymEmployee, error)
	GetEmployees() ([]models.GymEmployee, error)
	GetInstructors() ([]InstructorOption, error)
	UpdateEmployee(executor SQLExecutor, employee *models.GymEmployee) error
	UpdatePassword(executor SQLExecutor, id int64, passwordHash string) error
	DeleteEmployee(executor SQLExecutor, id int64) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `person_id, first_name, last_name, contact_details, username, password_hash, speciality, certification`

func scanEmployee(row interface{ Scan(...interface{}) error }) (*models.GymEmployee, error) {
	e := &models.GymEmployee{}
	var speciality, certification sql.NullString
	err := row.Scan(
		&e.PersonID, &e.FirstName, &e.LastName, &e.ContactDetails,
		&e.Username, &e.PasswordHash, &speciality, &certification,
	)
	if err != nil {
		return nil, err
	}
	if speciality.Valid {
		e.Speciality = &speciality.String
	}
	if certification.Valid {
		e.Certification = &certification.String
	}
	return e, nil
}

// CreateEmployee inserts a new gym employee into the database.
func (r *employeeRepository) CreateEmployee(executor SQLExecutor, employee *models.GymEmployee) (int64, error) {
	query := `INSERT INTO gym_employees (first_name, last_name, contact_details, username, password_hash, speciality, certification)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING person_id`

	err := executor.QueryRow(query,
		employee.FirstName, employee.LastName, employee.ContactDetails,
		employee.Username, employee.PasswordHash, employee.Speciality, employee.Certification,
	).Scan(&employee.PersonID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating employee: %v", ErrDatabaseError, err)
	}
	return employee.PersonID, nil
}

// GetEmployeeByID retrieves an employee by their ID.
func (r *employeeRepository) GetEmployeeByID(id int64) (*models.GymEmployee, error) {
	query := `SELECT ` + employeeColumns + ` FROM gym_employees WHERE person_id = $1`
	employee, err := scanEmployee(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting employee by ID %d: %v", ErrDatabaseError, id, err)
	}
	return employee, nil
}

// GetEmployeeByUsername retrieves an employee by their unique username.
func (r *employeeRepository) GetEmployeeByUsername(username string) (*models.GymEmployee, error) {
	query := `SELECT ` + employeeColumns + ` FROM gym_employees WHERE username = $1`
	employee, err := scanEmployee(r.db.QueryRow(query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting employee by username %s: %v", ErrDatabaseError, username, err)
	}
	return employee, nil
}

// GetEmployees retrieves all employees ordered by last name.
func (r *employeeRepository) GetEmployees() ([]models.GymEmployee, error) {
	employees := []models.GymEmployee{}
	query := `SELECT ` + employeeColumns + ` FROM gym_employees ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying employees: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning employee: %v", ErrDatabaseError, err)
		}
		employees = append(employees, *employee)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating employee rows: %v", ErrDatabaseError, err)
	}
	return employees, nil
}

// GetInstructors returns id and name for every employee, for class forms.
func (r *employeeRepository) GetInstructors() ([]InstructorOption, error) {
	options := []InstructorOption{}
	rows, err := r.db.Query(`SELECT person_id, first_name, last_name FROM gym_employees ORDER BY last_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying instructors: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt InstructorOption
		if err := rows.Scan(&opt.PersonID, &opt.FirstName, &opt.LastName); err != nil {
			return nil, fmt.Errorf("%w: scanning instructor: %v", ErrDatabaseError, err)
		}
		options = append(options, opt)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating instructor rows: %v", ErrDatabaseError, err)
	}
	return options, nil
}

// UpdateEmployee updates an existing employee's profile fields.
func (r *employeeRepository) UpdateEmployee(executor SQLExecutor, employee *models.GymEmployee) error {
	query := `UPDATE gym_employees SET
	            first_name = $1, last_name = $2, contact_details = $3, username = $4,
	            speciality = $5, certification = $6
	          WHERE person_id = $7`

	result, err := executor.Exec(query,
		employee.FirstName, employee.LastName, employee.ContactDetails, employee.Username,
		employee.Speciality, employee.Certification, employee.PersonID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: updating employee ID %d: %v", ErrDatabaseError, employee.PersonID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating employee ID %d: %v", ErrDatabaseError, employee.PersonID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces an employee's password hash.
func (r *employeeRepository) UpdatePassword(executor SQLExecutor, id int64, passwordHash string) error {
	result, err := executor.Exec(`UPDATE gym_employees SET password_hash = $1 WHERE person_id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%w: updating password for employee ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for employee ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEmployee removes an employee. Deletion is restricted while the
// employee still instructs classes.
func (r *employeeRepository) DeleteEmployee(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM gym_employees WHERE person_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: employee ID %d still instructs classes (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting employee ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting employee ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
