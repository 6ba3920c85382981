package repositories

import (
	"testing"
	"time"

	"gym_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAttendanceMapsNullCheckoutToZeroTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAttendanceRepository(db)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM gym_attendances WHERE attendance_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"attendance_id", "member_id", "date", "check_in", "check_out"}).
			AddRow(int64(3), int64(7), day, checkIn, nil))

	attendance, err := repo.GetAttendanceByID(3)
	require.NoError(t, err)
	assert.True(t, attendance.CheckOut.IsZero())
	assert.True(t, attendance.IsOpen())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOutArgMapsZeroTimeToNull(t *testing.T) {
	assert.Nil(t, checkOutArg(time.Time{}))

	ts := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, ts, checkOutArg(ts))
}

func TestCreateAttendanceWritesNullForOpenVisit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAttendanceRepository(db)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO gym_attendances`).
		WithArgs(int64(7), day, checkIn, nil).
		WillReturnRows(sqlmock.NewRows([]string{"attendance_id"}).AddRow(int64(12)))

	attendance := &models.GymAttendance{MemberID: 7, Date: day, CheckIn: checkIn}
	id, err := repo.CreateAttendance(db, attendance)
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	require.NoError(t, mock.ExpectationsWereMet())
}
