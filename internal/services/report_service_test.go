package services

import (
	"database/sql"
	"testing"

	"gym_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(db *sql.DB) ReportService {
	return NewReportService(
		repositories.NewReportRepository(db),
		repositories.NewMemberRepository(db),
		repositories.NewAttendanceRepository(db),
		repositories.NewPaymentRepository(db),
		repositories.NewClassRepository(db),
	)
}

func TestGetMonthLabels(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newReportService(db)

	labels := svc.GetMonthLabels()
	require.Len(t, labels, 12)
	assert.Equal(t, "January", labels[0])
	assert.Equal(t, "December", labels[11])

	// Mutating the returned slice must not leak into later calls.
	labels[0] = "Januar"
	assert.Equal(t, "January", svc.GetMonthLabels()[0])
}

func TestGetMembershipGrowthKeepsSparseBuckets(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectQuery(`FROM contracts`).
		WithArgs(2025).
		WillReturnRows(sqlmock.NewRows([]string{"month", "count"}).
			AddRow("2025-02", 4).
			AddRow("2025-09", 1))

	buckets, err := svc.GetMembershipGrowth(2025)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2025-02", buckets[0].Date)
	assert.Equal(t, 4, buckets[0].Count)
	assert.Equal(t, "2025-09", buckets[1].Date)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPopularClassesCapsAtFive(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectQuery(`ORDER BY attendance_count DESC`).
		WithArgs(2025, PopularClassLimit).
		WillReturnRows(sqlmock.NewRows([]string{"class_name", "attendance_count"}).
			AddRow("Yoga", 18).
			AddRow("Spin", 12))

	results, err := svc.GetPopularClasses(2025)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Yoga", results[0].ClassName)
	assert.Equal(t, 18, results[0].AttendanceCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReportParametersShapesCatalogRow(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	columns := []string{"report_id", "report_name", "function_name", "chart_type", "label", "label_property", "data_property", "background_color", "border_color"}
	mock.ExpectQuery(`FROM reports WHERE report_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), "Attendance Trend", "getAttendanceTrend", "bar", "Gym Visits", "date", "count", "rgba(75, 192, 192, 0.2)", "rgba(75, 192, 192, 1)"))

	params, err := svc.GetReportParameters(2)
	require.NoError(t, err)
	assert.Equal(t, "getAttendanceTrend", params.FunctionName)
	assert.Equal(t, "bar", params.ReportType.Type)
	assert.Equal(t, "Gym Visits", params.ReportType.Label)
	assert.Equal(t, "count", params.ReportType.DataProperty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReportParametersMissingReport(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectQuery(`FROM reports WHERE report_id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetReportParameters(99)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestGetDashboardSummary(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newReportService(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(120))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM gym_attendances WHERE date = \$1`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments WHERE amount = 0.00`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM gym_classes`).
		WithArgs(UpcomingClassWindowDays).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	summary, err := svc.GetDashboardSummary()
	require.NoError(t, err)
	assert.Equal(t, 120, summary.TotalMembers)
	assert.Equal(t, 14, summary.CheckInsToday)
	assert.Equal(t, 3, summary.PendingPaymentsCount)
	assert.Equal(t, 6, summary.UpcomingClassesCount)
	require.NoError(t, mock.ExpectationsWereMet())
}
