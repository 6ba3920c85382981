package services

import (
	"testing"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// recordingAttendanceService captures check-in and checkout calls so login
// tests can verify the attendance side effects without a database.
type recordingAttendanceService struct {
	AttendanceService
	checkedIn []int64
	closed    []int64
}

func (r *recordingAttendanceService) CheckInMember(memberID int64) error {
	r.checkedIn = append(r.checkedIn, memberID)
	return nil
}

func (r *recordingAttendanceService) CloseAttendance(memberID int64) error {
	r.closed = append(r.closed, memberID)
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

var memberTestColumns = []string{"person_id", "first_name", "last_name", "contact_details", "username", "password_hash", "date_of_birth"}

func TestMemberLoginRecordsCheckIn(t *testing.T) {
	db, mock := newMockDB(t)
	attendance := &recordingAttendanceService{}
	svc := NewAuthService(
		repositories.NewMemberRepository(db),
		repositories.NewEmployeeRepository(db),
		attendance,
	)

	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM members WHERE username = \$1`).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows(memberTestColumns).
			AddRow(int64(7), "Jane", "Doe", "jane@example.com", "jane", hashPassword(t, "s3cret-pass"), dob))

	resp, err := svc.Login(LoginRequest{Username: "jane", Password: "s3cret-pass", Role: models.RoleMember})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(7), resp.PersonID)
	assert.Equal(t, models.RoleMember, resp.Role)
	assert.Equal(t, []int64{7}, attendance.checkedIn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeLoginSkipsCheckIn(t *testing.T) {
	db, mock := newMockDB(t)
	attendance := &recordingAttendanceService{}
	svc := NewAuthService(
		repositories.NewMemberRepository(db),
		repositories.NewEmployeeRepository(db),
		attendance,
	)

	employeeColumns := []string{"person_id", "first_name", "last_name", "contact_details", "username", "password_hash", "speciality", "certification"}
	mock.ExpectQuery(`FROM gym_employees WHERE username = \$1`).
		WithArgs("coach").
		WillReturnRows(sqlmock.NewRows(employeeColumns).
			AddRow(int64(3), "Max", "Trainer", "max@example.com", "coach", hashPassword(t, "squat-rack"), "Strength", nil))

	resp, err := svc.Login(LoginRequest{Username: "coach", Password: "squat-rack", Role: models.RoleGymEmployee})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGymEmployee, resp.Role)
	assert.Empty(t, attendance.checkedIn)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	db, mock := newMockDB(t)
	attendance := &recordingAttendanceService{}
	svc := NewAuthService(
		repositories.NewMemberRepository(db),
		repositories.NewEmployeeRepository(db),
		attendance,
	)

	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM members WHERE username = \$1`).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows(memberTestColumns).
			AddRow(int64(7), "Jane", "Doe", "jane@example.com", "jane", hashPassword(t, "s3cret-pass"), dob))

	_, err := svc.Login(LoginRequest{Username: "jane", Password: "wrong", Role: models.RoleMember})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, attendance.checkedIn)
}

func TestLoginUnknownRole(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewAuthService(
		repositories.NewMemberRepository(db),
		repositories.NewEmployeeRepository(db),
		&recordingAttendanceService{},
	)

	_, err := svc.Login(LoginRequest{Username: "jane", Password: "x", Role: "Admin"})
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestLogoutClosesMemberAttendanceOnly(t *testing.T) {
	attendance := &recordingAttendanceService{}
	svc := NewAuthService(nil, nil, attendance)

	err := svc.Logout(models.Principal{PersonID: 7, Role: models.RoleMember})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, attendance.closed)

	err = svc.Logout(models.Principal{PersonID: 3, Role: models.RoleGymEmployee})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, attendance.closed)
}
