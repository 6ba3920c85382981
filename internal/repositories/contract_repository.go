package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_backend/internal/models"

	"github.com/lib/pq"
)

// ContractRepository defines the interface for contract database operations.
//
// Two distinct "most recent contract" queries exist on purpose: status checks
// order by end date, payment confirmation orders by start date. The two rules
// come from different call sites upstream and must not be unified.
type ContractRepository interface {
	CreateContract(executor SQLExecutor, contract *models.Contract) (int64, error)
	GetContractByID(id int64) (*models.Contract, error)
	GetContracts() ([]models.Contract, error)
	GetContractsByMember(memberID int64) ([]models.Contract, error)
	GetLatestContractByEndDate(memberID int64) (*models.Contract, error)
	GetLatestContractByStartDate(executor SQLExecutor, memberID int64) (*models.Contract, error)
	HasContract(memberID int64) (bool, error)
	UpdateContract(executor SQLExecutor, contract *models.Contract) error
	DeleteContract(executor SQLExecutor, id int64) error
}

type contractRepository struct {
	db *sql.DB
}

// NewContractRepository creates a new instance of ContractRepository.
func NewContractRepository(db *sql.DB) ContractRepository {
	return &contractRepository{db: db}
}

// CreateContract inserts a new contract into the database.
func (r *contractRepository) CreateContract(executor SQLExecutor, contract *models.Contract) (int64, error) {
	query := `INSERT INTO contracts (start_date, end_date, membership_type, member_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING contract_id`

	err := executor.QueryRow(query,
		contract.StartDate, contract.EndDate, contract.MembershipType, contract.MemberID,
	).Scan(&contract.ContractID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return 0, fmt.Errorf("%w: member ID %d does not exist", ErrNotFound, contract.MemberID)
		}
		return 0, fmt.Errorf("%w: creating contract: %v", ErrDatabaseError, err)
	}
	return contract.ContractID, nil
}

// GetContractByID retrieves a contract by its ID.
func (r *contractRepository) GetContractByID(id int64) (*models.Contract, error) {
	contract := &models.Contract{}
	query := `SELECT contract_id, start_date, end_date, membership_type, member_id
	          FROM contracts WHERE contract_id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&contract.ContractID, &contract.StartDate, &contract.EndDate,
		&contract.MembershipType, &contract.MemberID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting contract by ID %d: %v", ErrDatabaseError, id, err)
	}
	return contract, nil
}

// GetContracts retrieves all contracts with the owning member's name joined.
func (r *contractRepository) GetContracts() ([]models.Contract, error) {
	contracts := []models.Contract{}
	query := `SELECT c.contract_id, c.start_date, c.end_date, c.membership_type, c.member_id,
	                 m.first_name || ' ' || m.last_name AS member_name
	          FROM contracts c
	          JOIN members m ON m.person_id = c.member_id
	          ORDER BY c.start_date DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying contracts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var contract models.Contract
		var memberName string
		if err := rows.Scan(
			&contract.ContractID, &contract.StartDate, &contract.EndDate,
			&contract.MembershipType, &contract.MemberID, &memberName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning contract: %v", ErrDatabaseError, err)
		}
		contract.MemberName = &memberName
		contracts = append(contracts, contract)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating contract rows: %v", ErrDatabaseError, err)
	}
	return contracts, nil
}

// GetContractsByMember retrieves all contracts owned by a member.
func (r *contractRepository) GetContractsByMember(memberID int64) ([]models.Contract, error) {
	contracts := []models.Contract{}
	query := `SELECT contract_id, start_date, end_date, membership_type, member_id
	          FROM contracts WHERE member_id = $1 ORDER BY start_date DESC`

	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying contracts for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var contract models.Contract
		if err := rows.Scan(
			&contract.ContractID, &contract.StartDate, &contract.EndDate,
			&contract.MembershipType, &contract.MemberID,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning contract: %v", ErrDatabaseError, err)
		}
		contracts = append(contracts, contract)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating contract rows: %v", ErrDatabaseError, err)
	}
	return contracts, nil
}

// GetLatestContractByEndDate returns the member's contract with the latest end
// date. Used by the status check. Ties are resolved by whatever row the store
// returns first.
func (r *contractRepository) GetLatestContractByEndDate(memberID int64) (*models.Contract, error) {
	contract := &models.Contract{}
	query := `SELECT contract_id, start_date, end_date, membership_type, member_id
	          FROM contracts WHERE member_id = $1
	          ORDER BY end_date DESC LIMIT 1`

	err := r.db.QueryRow(query, memberID).Scan(
		&contract.ContractID, &contract.StartDate, &contract.EndDate,
		&contract.MembershipType, &contract.MemberID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting latest contract by end date for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return contract, nil
}

// GetLatestContractByStartDate returns the member's contract with the latest
// start date. Used by payment confirmation pricing.
func (r *contractRepository) GetLatestContractByStartDate(executor SQLExecutor, memberID int64) (*models.Contract, error) {
	contract := &models.Contract{}
	query := `SELECT contract_id, start_date, end_date, membership_type, member_id
	          FROM contracts WHERE member_id = $1
	          ORDER BY start_date DESC LIMIT 1`

	err := executor.QueryRow(query, memberID).Scan(
		&contract.ContractID, &contract.StartDate, &contract.EndDate,
		&contract.MembershipType, &contract.MemberID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting latest contract by start date for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return contract, nil
}

// HasContract reports whether the member owns any contract row.
func (r *contractRepository) HasContract(memberID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM contracts WHERE member_id = $1)`, memberID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking contract existence for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return exists, nil
}

// UpdateContract updates an existing contract.
func (r *contractRepository) UpdateContract(executor SQLExecutor, contract *models.Contract) error {
	query := `UPDATE contracts SET
	            start_date = $1, end_date = $2, membership_type = $3, member_id = $4
	          WHERE contract_id = $5`

	result, err := executor.Exec(query,
		contract.StartDate, contract.EndDate, contract.MembershipType,
		contract.MemberID, contract.ContractID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating contract ID %d: %v", ErrDatabaseError, contract.ContractID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating contract ID %d: %v", ErrDatabaseError, contract.ContractID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContract removes a contract.
func (r *contractRepository) DeleteContract(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM contracts WHERE contract_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting contract ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting contract ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
