package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment database operations.
type PaymentRepository interface {
	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	GetPaymentByID(executor SQLExecutor, id int64) (*models.Payment, error)
	GetPendingPayments() ([]models.Payment, error)
	GetLastPaymentByMember(memberID int64) (*models.Payment, error)
	UpdatePaymentAmount(executor SQLExecutor, id int64, amount decimal.Decimal) error
	DeletePayment(executor SQLExecutor, id int64) error
	CountPendingPayments() (int, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// CreatePayment inserts a new payment. Placeholder payments carry amount 0.00.
func (r *paymentRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments (member_id, date, amount)
	          VALUES ($1, $2, $3)
	          RETURNING payment_id`

	err := executor.QueryRow(query,
		payment.MemberID, payment.Date, payment.Amount,
	).Scan(&payment.PaymentID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return 0, fmt.Errorf("%w: member ID %d does not exist", ErrNotFound, payment.MemberID)
		}
		return 0, fmt.Errorf("%w: creating payment: %v", ErrDatabaseError, err)
	}
	return payment.PaymentID, nil
}

// GetPaymentByID retrieves a payment by its ID.
func (r *paymentRepository) GetPaymentByID(executor SQLExecutor, id int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT payment_id, member_id, date, amount FROM payments WHERE payment_id = $1`

	err := executor.QueryRow(query, id).Scan(
		&payment.PaymentID, &payment.MemberID, &payment.Date, &payment.Amount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting payment by ID %d: %v", ErrDatabaseError, id, err)
	}
	return payment, nil
}

// GetPendingPayments lists payments whose amount is exactly 0.00, with the
// member's name joined. Exact equality on the NUMERIC column, no tolerance.
func (r *paymentRepository) GetPendingPayments() ([]models.Payment, error) {
	payments := []models.Payment{}
	query := `SELECT p.payment_id, p.member_id, p.date, p.amount,
	                 m.first_name || ' ' || m.last_name AS member_name
	          FROM payments p
	          JOIN members m ON m.person_id = p.member_id
	          WHERE p.amount = 0.00
	          ORDER BY p.date ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pending payments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var payment models.Payment
		var memberName string
		if err := rows.Scan(
			&payment.PaymentID, &payment.MemberID, &payment.Date, &payment.Amount, &memberName,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning payment: %v", ErrDatabaseError, err)
		}
		payment.MemberName = &memberName
		payments = append(payments, payment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payment rows: %v", ErrDatabaseError, err)
	}
	return payments, nil
}

// GetLastPaymentByMember returns the member's most recent payment by date.
func (r *paymentRepository) GetLastPaymentByMember(memberID int64) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `SELECT payment_id, member_id, date, amount
	          FROM payments WHERE member_id = $1
	          ORDER BY date DESC LIMIT 1`

	err := r.db.QueryRow(query, memberID).Scan(
		&payment.PaymentID, &payment.MemberID, &payment.Date, &payment.Amount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting last payment for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return payment, nil
}

// UpdatePaymentAmount sets the amount of an existing payment.
func (r *paymentRepository) UpdatePaymentAmount(executor SQLExecutor, id int64, amount decimal.Decimal) error {
	result, err := executor.Exec(`UPDATE payments SET amount = $1 WHERE payment_id = $2`, amount, id)
	if err != nil {
		return fmt.Errorf("%w: updating payment ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for payment ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePayment removes a payment.
func (r *paymentRepository) DeletePayment(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM payments WHERE payment_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting payment ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting payment ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountPendingPayments returns how many payments still carry amount 0.00.
func (r *paymentRepository) CountPendingPayments() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM payments WHERE amount = 0.00`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting pending payments: %v", ErrDatabaseError, err)
	}
	return count, nil
}
