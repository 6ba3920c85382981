package services

import (
	"testing"
	"time"

	"gym_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMemberRejectsTakenUsername(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewMemberService(repositories.NewMemberRepository(db), db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM members WHERE username = \$1\)`).
		WithArgs("jane").
		WillReturnRows(sqlmock.NewRows([]string{"taken"}).AddRow(true))

	_, err := svc.CreateMember(CreateMemberRequest{
		FirstName:      "Jane",
		LastName:       "Doe",
		ContactDetails: "jane@example.com",
		Username:       "jane",
		Password:       "long-enough-pass",
		DateOfBirth:    "1990-01-01",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMemberRejectsBadDateOfBirth(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewMemberService(repositories.NewMemberRepository(db), db)

	_, err := svc.CreateMember(CreateMemberRequest{
		FirstName:      "Jane",
		LastName:       "Doe",
		ContactDetails: "jane@example.com",
		Username:       "jane",
		Password:       "long-enough-pass",
		DateOfBirth:    "01.01.1990",
	})
	assert.ErrorIs(t, err, ErrDateFormat)

	future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	_, err = svc.CreateMember(CreateMemberRequest{
		FirstName:      "Jane",
		LastName:       "Doe",
		ContactDetails: "jane@example.com",
		Username:       "jane",
		Password:       "long-enough-pass",
		DateOfBirth:    future,
	})
	assert.ErrorIs(t, err, ErrMemberValidation)
}

func TestUpdateMemberRejectsWrongOldPassword(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewMemberService(repositories.NewMemberRepository(db), db)

	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM members WHERE person_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(memberTestColumns).
			AddRow(int64(7), "Jane", "Doe", "jane@example.com", "jane", hashPassword(t, "correct-pass"), dob))

	wrong := "wrong-pass"
	next := "new-pass-123"
	_, err := svc.UpdateMember(7, UpdateMemberRequest{OldPassword: &wrong, NewPassword: &next})
	assert.ErrorIs(t, err, ErrOldPasswordInvalid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMemberStripsPasswordHash(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewMemberService(repositories.NewMemberRepository(db), db)

	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM members WHERE person_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(memberTestColumns).
			AddRow(int64(7), "Jane", "Doe", "jane@example.com", "jane", "some-hash", dob))

	member, err := svc.GetMemberByID(7)
	require.NoError(t, err)
	assert.Empty(t, member.PasswordHash)
}
