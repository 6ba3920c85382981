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

func newClassService(db *sql.DB) *classService {
	return NewClassService(
		repositories.NewClassRepository(db),
		repositories.NewEmployeeRepository(db),
		db,
	).(*classService)
}

var classColumns = []string{"class_id", "class_name", "instructor_id", "date", "time", "capacity", "category"}

func classRow(id int64) *sqlmock.Rows {
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(classColumns).
		AddRow(id, "Yoga", int64(2), date, "18:00:00", 20, "Wellness")
}

func TestToggleEnrollmentJoins(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newClassService(db)

	mock.ExpectQuery(`FROM gym_classes WHERE class_id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(classRow(4))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM gym_class_attendances`).
		WithArgs(int64(4), int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO gym_class_attendances`).
		WithArgs(int64(4), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	action, err := svc.ToggleEnrollment(4, 7)
	require.NoError(t, err)
	assert.Equal(t, EnrollmentJoined, action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleEnrollmentLeavesWhenAlreadyEnrolled(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newClassService(db)

	mock.ExpectQuery(`FROM gym_classes WHERE class_id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(classRow(4))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM gym_class_attendances`).
		WithArgs(int64(4), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"class_id", "member_id"}).AddRow(int64(4), int64(7)))
	mock.ExpectExec(`DELETE FROM gym_class_attendances`).
		WithArgs(int64(4), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	action, err := svc.ToggleEnrollment(4, 7)
	require.NoError(t, err)
	assert.Equal(t, EnrollmentLeft, action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleEnrollmentMissingClass(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newClassService(db)

	mock.ExpectQuery(`FROM gym_classes WHERE class_id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.ToggleEnrollment(99, 7)
	assert.ErrorIs(t, err, ErrClassNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassEventsAreHourLong(t *testing.T) {
	date := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	classes := []models.GymClass{
		{ClassID: 1, ClassName: "Yoga", Date: date, Time: "18:00:00"},
		{ClassID: 2, ClassName: "Spin", Date: date, Time: "07:30:00"},
	}

	events := classEvents(classes, "green")
	require.Len(t, events, 2)

	assert.Equal(t, "Yoga", events[0].Title)
	assert.Equal(t, time.Date(2025, 7, 1, 18, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, time.Hour, events[0].End.Sub(events[0].Start))
	assert.Equal(t, "green", events[0].Color)

	assert.Equal(t, time.Date(2025, 7, 1, 7, 30, 0, 0, time.UTC), events[1].Start)
	assert.Equal(t, time.Hour, events[1].End.Sub(events[1].Start))
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := parseTimeOfDay("18:00")
	require.NoError(t, err)
	assert.Equal(t, "18:00:00", got)

	got, err = parseTimeOfDay("07:30:15")
	require.NoError(t, err)
	assert.Equal(t, "07:30:15", got)

	_, err = parseTimeOfDay("6pm")
	assert.ErrorIs(t, err, ErrClassValidation)
}

func TestCreateClassRequiresExistingInstructor(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newClassService(db)

	mock.ExpectQuery(`FROM gym_employees WHERE person_id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CreateClass(CreateClassRequest{
		ClassName:    "Yoga",
		InstructorID: 42,
		Date:         "2025-07-01",
		Time:         "18:00",
		Capacity:     20,
		Category:     "Wellness",
	})
	assert.ErrorIs(t, err, ErrInstructorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
