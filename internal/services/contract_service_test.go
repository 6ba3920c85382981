package services

import (
	"database/sql"
	"testing"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContractServiceAt(db *sql.DB, now time.Time) *contractService {
	svc := NewContractService(repositories.NewContractRepository(db), db).(*contractService)
	svc.now = func() time.Time { return now }
	return svc
}

var contractColumns = []string{"contract_id", "start_date", "end_date", "membership_type", "member_id"}

func TestClassifyContractStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		endDate time.Time
		want    string
	}{
		{"ends well in the future", now.AddDate(0, 3, 0), models.ContractStatusActive},
		{"ends within a month", now.AddDate(0, 0, 10), models.ContractStatusRenewSoon},
		{"ends tomorrow", now.AddDate(0, 0, 1), models.ContractStatusRenewSoon},
		{"ends exactly now", now, models.ContractStatusExpired},
		{"ended last week", now.AddDate(0, 0, -7), models.ContractStatusExpired},
		{"ends exactly one month out", now.AddDate(0, 1, 0), models.ContractStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyContractStatus(tt.endDate, now))
		})
	}
}

func TestCheckContractStatusWithoutContract(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newContractServiceAt(db, now)

	mock.ExpectQuery(`ORDER BY end_date DESC LIMIT 1`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	result, err := svc.CheckContractStatus(7)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusNone, result.Status)
	assert.Nil(t, result.EndDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckContractStatusUsesLatestEndDate(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newContractServiceAt(db, now)

	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY end_date DESC LIMIT 1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(contractColumns).
			AddRow(int64(4), start, end, models.TierGold, int64(7)))

	result, err := svc.CheckContractStatus(7)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusRenewSoon, result.Status)
	require.NotNil(t, result.EndDate)
	assert.True(t, result.EndDate.Equal(end))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContractValidation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newContractServiceAt(db, time.Now())

	_, err := svc.CreateContract(CreateContractRequest{
		StartDate:      "2025-01-01",
		EndDate:        "2025-12-31",
		MembershipType: "  ",
		MemberID:       7,
	})
	assert.ErrorIs(t, err, ErrContractValidation)

	_, err = svc.CreateContract(CreateContractRequest{
		StartDate:      "01.01.2025",
		EndDate:        "2025-12-31",
		MembershipType: models.TierSilver,
		MemberID:       7,
	})
	assert.ErrorIs(t, err, ErrContractDateFormat)

	_, err = svc.CreateContract(CreateContractRequest{
		StartDate:      "2025-01-01",
		EndDate:        "2025-12-31",
		MembershipType: models.TierSilver,
	})
	assert.ErrorIs(t, err, ErrContractValidation)
}
