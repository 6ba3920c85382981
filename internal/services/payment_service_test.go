package services

import (
	"database/sql"
	"testing"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentServiceAt(db *sql.DB, now time.Time) *paymentService {
	svc := NewPaymentService(
		repositories.NewPaymentRepository(db),
		repositories.NewContractRepository(db),
		db,
	).(*paymentService)
	svc.now = func() time.Time { return now }
	return svc
}

var paymentColumns = []string{"payment_id", "member_id", "date", "amount"}

func TestPriceForTier(t *testing.T) {
	tests := []struct {
		tier  string
		price int64
		known bool
	}{
		{models.TierGold, 400, true},
		{models.TierSilver, 300, true},
		{models.TierPlatinum, 500, true},
		{"Bronze", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		price, known := PriceForTier(tt.tier)
		assert.Equal(t, tt.known, known, tt.tier)
		if tt.known {
			assert.True(t, decimal.NewFromInt(tt.price).Equal(price), tt.tier)
		}
	}
}

func TestConfirmPaymentPricesFromLatestContractByStartDate(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newPaymentServiceAt(db, time.Now())

	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM payments WHERE payment_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(paymentColumns).
			AddRow(int64(5), int64(7), date, "0"))
	mock.ExpectQuery(`ORDER BY start_date DESC LIMIT 1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow(int64(2), date, date.AddDate(1, 0, 0), models.TierGold, int64(7)))
	mock.ExpectExec(`UPDATE payments SET amount = \$1 WHERE payment_id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payment, err := svc.ConfirmPayment(5)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400).Equal(payment.Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPaymentUnknownTierKeepsAmount(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newPaymentServiceAt(db, time.Now())

	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM payments WHERE payment_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(paymentColumns).
			AddRow(int64(5), int64(7), date, "25.00"))
	mock.ExpectQuery(`ORDER BY start_date DESC LIMIT 1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow(int64(2), date, date.AddDate(1, 0, 0), "Bronze", int64(7)))
	mock.ExpectExec(`UPDATE payments SET amount = \$1 WHERE payment_id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payment, err := svc.ConfirmPayment(5)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25.00").Equal(payment.Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmAllPaymentsSkipsUnresolvable(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newPaymentServiceAt(db, time.Now())

	date := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()

	// First id resolves and is priced.
	mock.ExpectQuery(`FROM payments WHERE payment_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(paymentColumns).
			AddRow(int64(1), int64(7), date, "0"))
	mock.ExpectQuery(`ORDER BY start_date DESC LIMIT 1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow(int64(2), date, date.AddDate(1, 0, 0), models.TierSilver, int64(7)))
	mock.ExpectExec(`UPDATE payments SET amount = \$1 WHERE payment_id = \$2`).
		WithArgs(sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Second id: no such payment. Skipped.
	mock.ExpectQuery(`FROM payments WHERE payment_id = \$1`).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	// Third id: payment exists but the member has no contract. Skipped.
	mock.ExpectQuery(`FROM payments WHERE payment_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(paymentColumns).
			AddRow(int64(3), int64(8), date, "0"))
	mock.ExpectQuery(`ORDER BY start_date DESC LIMIT 1`).
		WithArgs(int64(8)).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectCommit()

	confirmed, err := svc.ConfirmAllPayments([]int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckPaymentEligibility(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("no contract", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newPaymentServiceAt(db, now)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM contracts`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		result, err := svc.CheckPaymentEligibility(7)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusNoContract, result.Status)
	})

	t.Run("no payment yet", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newPaymentServiceAt(db, now)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM contracts`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`ORDER BY date DESC LIMIT 1`).
			WithArgs(int64(7)).
			WillReturnError(sql.ErrNoRows)

		result, err := svc.CheckPaymentEligibility(7)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusNoPayment, result.Status)
	})

	t.Run("last payment older than a month", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newPaymentServiceAt(db, now)

		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM contracts`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`ORDER BY date DESC LIMIT 1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(paymentColumns).
				AddRow(int64(11), int64(7), now.AddDate(0, -2, 0), "400"))

		result, err := svc.CheckPaymentEligibility(7)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusEligible, result.Status)
	})

	t.Run("recent payment exists", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newPaymentServiceAt(db, now)

		paymentDate := now.AddDate(0, 0, -10)
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM contracts`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectQuery(`ORDER BY date DESC LIMIT 1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(paymentColumns).
				AddRow(int64(11), int64(7), paymentDate, "400"))

		result, err := svc.CheckPaymentEligibility(7)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaymentExists, result.Status)
		require.NotNil(t, result.PaymentID)
		assert.Equal(t, int64(11), *result.PaymentID)
		require.NotNil(t, result.PaymentDate)
		assert.True(t, result.PaymentDate.Equal(paymentDate))
		require.NotNil(t, result.Amount)
		assert.True(t, decimal.NewFromInt(400).Equal(*result.Amount))
	})
}

func TestStorePaymentRecordsZeroAmount(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newPaymentServiceAt(db, now)

	mock.ExpectQuery(`INSERT INTO payments`).
		WithArgs(int64(7), now, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"payment_id"}).AddRow(int64(21)))

	payment, err := svc.StorePayment(StorePaymentRequest{MemberID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(21), payment.PaymentID)
	assert.True(t, payment.Amount.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
