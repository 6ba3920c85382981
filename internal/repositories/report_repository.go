package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_backend/internal/models"
)

// ReportRepository defines the interface for the report catalog and the
// time-series aggregation queries behind the dashboard.
//
// Monthly buckets are computed in SQL: rows are filtered to the requested
// year, grouped by to_char(date, 'YYYY-MM') and ordered by that label. Months
// with no rows produce no bucket; the series stays sparse.
type ReportRepository interface {
	GetReports() ([]models.Report, error)
	GetReportByID(id int64) (*models.Report, error)

	GetMonthlyContractCounts(year int) ([]models.MonthlyCount, error)
	GetMonthlyAttendanceCounts(year int) ([]models.MonthlyCount, error)
	GetMonthlyPaymentRevenue(year int) ([]models.MonthlyRevenue, error)
	GetPopularClasses(year int, limit int) ([]models.ClassPopularity, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

const reportColumns = `report_id, report_name, function_name, chart_type, label, label_property, data_property, background_color, border_color`

// GetReports retrieves the report catalog.
func (r *reportRepository) GetReports() ([]models.Report, error) {
	reports := []models.Report{}
	rows, err := r.db.Query(`SELECT ` + reportColumns + ` FROM reports ORDER BY report_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying reports: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var report models.Report
		if err := rows.Scan(
			&report.ReportID, &report.ReportName, &report.FunctionName, &report.ChartType,
			&report.Label, &report.LabelProperty, &report.DataProperty,
			&report.BackgroundColor, &report.BorderColor,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning report: %v", ErrDatabaseError, err)
		}
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating report rows: %v", ErrDatabaseError, err)
	}
	return reports, nil
}

// GetReportByID retrieves a single report descriptor.
func (r *reportRepository) GetReportByID(id int64) (*models.Report, error) {
	report := &models.Report{}
	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&report.ReportID, &report.ReportName, &report.FunctionName, &report.ChartType,
		&report.Label, &report.LabelProperty, &report.DataProperty,
		&report.BackgroundColor, &report.BorderColor,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting report by ID %d: %v", ErrDatabaseError, id, err)
	}
	return report, nil
}

func (r *reportRepository) queryMonthlyCounts(query string, year int) ([]models.MonthlyCount, error) {
	buckets := []models.MonthlyCount{}
	rows, err := r.db.Query(query, year)
	if err != nil {
		return nil, fmt.Errorf("%w: querying monthly counts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket models.MonthlyCount
		if err := rows.Scan(&bucket.Date, &bucket.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning monthly bucket: %v", ErrDatabaseError, err)
		}
		buckets = append(buckets, bucket)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating monthly buckets: %v", ErrDatabaseError, err)
	}
	return buckets, nil
}

// GetMonthlyContractCounts buckets contracts by start date month for a year.
func (r *reportRepository) GetMonthlyContractCounts(year int) ([]models.MonthlyCount, error) {
	query := `SELECT to_char(start_date, 'YYYY-MM') AS month, COUNT(*)
	          FROM contracts
	          WHERE EXTRACT(YEAR FROM start_date) = $1
	          GROUP BY 1 ORDER BY 1 ASC`
	return r.queryMonthlyCounts(query, year)
}

// GetMonthlyAttendanceCounts buckets gym visits by month for a year.
func (r *reportRepository) GetMonthlyAttendanceCounts(year int) ([]models.MonthlyCount, error) {
	query := `SELECT to_char(date, 'YYYY-MM') AS month, COUNT(*)
	          FROM gym_attendances
	          WHERE EXTRACT(YEAR FROM date) = $1
	          GROUP BY 1 ORDER BY 1 ASC`
	return r.queryMonthlyCounts(query, year)
}

// GetMonthlyPaymentRevenue buckets payment sums by month for a year.
func (r *reportRepository) GetMonthlyPaymentRevenue(year int) ([]models.MonthlyRevenue, error) {
	buckets := []models.MonthlyRevenue{}
	query := `SELECT to_char(date, 'YYYY-MM') AS month, COALESCE(SUM(amount), 0)
	          FROM payments
	          WHERE EXTRACT(YEAR FROM date) = $1
	          GROUP BY 1 ORDER BY 1 ASC`

	rows, err := r.db.Query(query, year)
	if err != nil {
		return nil, fmt.Errorf("%w: querying monthly revenue: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket models.MonthlyRevenue
		if err := rows.Scan(&bucket.Date, &bucket.Revenue); err != nil {
			return nil, fmt.Errorf("%w: scanning revenue bucket: %v", ErrDatabaseError, err)
		}
		buckets = append(buckets, bucket)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating revenue buckets: %v", ErrDatabaseError, err)
	}
	return buckets, nil
}

// GetPopularClasses ranks class names by enrollment count for a year. Inner
// join: classes with zero attendees never appear. Grouping is by class name,
// so distinct classes sharing a name merge into one row.
func (r *reportRepository) GetPopularClasses(year int, limit int) ([]models.ClassPopularity, error) {
	results := []models.ClassPopularity{}
	query := `SELECT g.class_name, COUNT(*) AS attendance_count
	          FROM gym_classes g
	          JOIN gym_class_attendances gca ON gca.class_id = g.class_id
	          WHERE EXTRACT(YEAR FROM g.date) = $1
	          GROUP BY g.class_name
	          ORDER BY attendance_count DESC
	          LIMIT $2`

	rows, err := r.db.Query(query, year, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying popular classes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var result models.ClassPopularity
		if err := rows.Scan(&result.ClassName, &result.AttendanceCount); err != nil {
			return nil, fmt.Errorf("%w: scanning popular class: %v", ErrDatabaseError, err)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating popular class rows: %v", ErrDatabaseError, err)
	}
	return results, nil
}
