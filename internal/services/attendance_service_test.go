package services

import (
	"database/sql"
	"testing"
	"time"

	"gym_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newAttendanceServiceAt(db *sql.DB, now time.Time) *attendanceService {
	svc := NewAttendanceService(repositories.NewAttendanceRepository(db), db).(*attendanceService)
	svc.now = func() time.Time { return now }
	return svc
}

var attendanceColumns = []string{"attendance_id", "member_id", "date", "check_in", "check_out"}

func TestCheckInMemberClosesStaleVisit(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	staleCheckIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	svc := newAttendanceServiceAt(db, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`check_out IS NULL`).
		WithArgs(int64(7), today).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).
			AddRow(int64(3), int64(7), today, staleCheckIn, nil))
	mock.ExpectExec(`UPDATE gym_attendances SET check_out = \$1 WHERE attendance_id = \$2`).
		WithArgs(staleCheckIn.Add(StaleVisitDuration), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO gym_attendances`).
		WithArgs(int64(7), today, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"attendance_id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	err := svc.CheckInMember(7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInMemberWithoutStaleVisit(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2025, 3, 10, 7, 15, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	svc := newAttendanceServiceAt(db, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`check_out IS NULL`).
		WithArgs(int64(7), today).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO gym_attendances`).
		WithArgs(int64(7), today, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"attendance_id"}).AddRow(int64(10)))
	mock.ExpectCommit()

	err := svc.CheckInMember(7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseAttendanceSetsCheckout(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	svc := newAttendanceServiceAt(db, now)

	mock.ExpectQuery(`ORDER BY check_in DESC LIMIT 1`).
		WithArgs(int64(7), today).
		WillReturnRows(sqlmock.NewRows(attendanceColumns).
			AddRow(int64(9), int64(7), today, checkIn, checkIn))
	mock.ExpectExec(`UPDATE gym_attendances SET check_out = \$1 WHERE attendance_id = \$2`).
		WithArgs(now, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.CloseAttendance(7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseAttendanceWithoutVisitIsNoop(t *testing.T) {
	db, mock := newMockDB(t)

	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	svc := newAttendanceServiceAt(db, now)

	mock.ExpectQuery(`ORDER BY check_in DESC LIMIT 1`).
		WithArgs(int64(7), today).
		WillReturnError(sql.ErrNoRows)

	err := svc.CloseAttendance(7)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAttendanceRejectsBadTimestamp(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newAttendanceServiceAt(db, time.Now())

	_, err := svc.CreateAttendance(CreateAttendanceRequest{
		MemberID: 7,
		Date:     "2025-03-10",
		CheckIn:  "not-a-timestamp",
	})
	assert.ErrorIs(t, err, ErrAttendanceInvalid)
}
