package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// MemberRepository defines the interface for member-related database operations.
type MemberRepository interface {
	CreateMember(executor SQLExecutor, member *models.Member) (int64, error)
	GetMemberByID(id int64) (*models.Member, error)
	GetMemberByUsername(username string) (*models.Member, error)
	GetMembers() ([]models.Member, error)
	UpdateMember(executor SQLExecutor, member *models.Member) error
	UpdatePassword(executor SQLExecutor, id int64, passwordHash string) error
	DeleteMember(executor SQLExecutor, id int64) error
	CountMembers() (int, error)
	IsUsernameTaken(username string) (bool, error)
}

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `person_id, first_name, last_name, contact_details, username, password_hash, date_of_birth`

func scanMember(row interface{ Scan(...interface{}) error }) (*models.Member, error) {
	m := &models.Member{}
	var dob time.Time
	err := row.Scan(
		&m.PersonID, &m.FirstName, &m.LastName, &m.ContactDetails,
		&m.Username, &m.PasswordHash, &dob,
	)
	if err != nil {
		return nil, err
	}
	m.DateOfBirth = dob
	return m, nil
}

// CreateMember inserts a new member into the database.
func (r *memberRepository) CreateMember(executor SQLExecutor, member *models.Member) (int64, error) {
	query := `INSERT INTO members (first_name, last_name, contact_details, username, password_hash, date_of_birth)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING person_id`

	err := executor.QueryRow(query,
		member.FirstName, member.LastName, member.ContactDetails,
		member.Username, member.PasswordHash, member.DateOfBirth,
	).Scan(&member.PersonID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating member: %v", ErrDatabaseError, err)
	}
	return member.PersonID, nil
}

// GetMemberByID retrieves a member by their ID.
func (r *memberRepository) GetMemberByID(id int64) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE person_id = $1`
	member, err := scanMember(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting member by ID %d: %v", ErrDatabaseError, id, err)
	}
	return member, nil
}

// GetMemberByUsername retrieves a member by their unique username.
func (r *memberRepository) GetMemberByUsername(username string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE username = $1`
	member, err := scanMember(r.db.QueryRow(query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting member by username %s: %v", ErrDatabaseError, username, err)
	}
	return member, nil
}

// GetMembers retrieves all members ordered by last name.
func (r *memberRepository) GetMembers() ([]models.Member, error) {
	members := []models.Member{}
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning member: %v", ErrDatabaseError, err)
		}
		members = append(members, *member)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating member rows: %v", ErrDatabaseError, err)
	}
	return members, nil
}

// UpdateMember updates an existing member's profile fields.
func (r *memberRepository) UpdateMember(executor SQLExecutor, member *models.Member) error {
	query := `UPDATE members SET
	            first_name = $1, last_name = $2, contact_details = $3, username = $4
	          WHERE person_id = $5`

	result, err := executor.Exec(query,
		member.FirstName, member.LastName, member.ContactDetails, member.Username, member.PersonID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: updating member ID %d: %v", ErrDatabaseError, member.PersonID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating member ID %d: %v", ErrDatabaseError, member.PersonID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces a member's password hash.
func (r *memberRepository) UpdatePassword(executor SQLExecutor, id int64, passwordHash string) error {
	result, err := executor.Exec(`UPDATE members SET password_hash = $1 WHERE person_id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%w: updating password for member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for member ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMember removes a member. Contracts cascade; payments, attendances and
// enrollments restrict deletion while they reference the member.
func (r *memberRepository) DeleteMember(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM members WHERE person_id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: member ID %d is referenced by other records (constraint: %s)", ErrForeignKeyViolation, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting member ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting member ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountMembers returns the total number of members.
func (r *memberRepository) CountMembers() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM members`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting members: %v", ErrDatabaseError, err)
	}
	return count, nil
}

// IsUsernameTaken reports whether the username exists in either person namespace.
func (r *memberRepository) IsUsernameTaken(username string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE username = $1)
	          OR EXISTS(SELECT 1 FROM gym_employees WHERE username = $1)`
	err := r.db.QueryRow(query, username).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("%w: checking username %s: %v", ErrDatabaseError, username, err)
	}
	return taken, nil
}
