package services

import (
	"errors"
	"fmt"
	"time"

	"gym_backend/internal/models"
	"gym_backend/internal/repositories"
)

var ErrReportNotFound = errors.New("report not found")

// PopularClassLimit caps the popular-classes ranking.
const PopularClassLimit = 5

// UpcomingClassWindowDays is the dashboard's look-ahead for scheduled classes.
const UpcomingClassWindowDays = 7

// monthLabels is the fixed label row charts render underneath the sparse
// monthly buckets.
var monthLabels = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// --- ReportService Interface ---
type ReportService interface {
	GetReports() ([]models.Report, error)
	GetReportByID(reportID int64) (*models.Report, error)
	// GetReportParameters shapes a catalog row into the chart descriptor the
	// dashboard consumes.
	GetReportParameters(reportID int64) (*models.ReportParameters, error)

	GetMembershipGrowth(year int) ([]models.MonthlyCount, error)
	GetAttendanceTrend(year int) ([]models.MonthlyCount, error)
	GetMembershipRevenue(year int) ([]models.MonthlyRevenue, error)
	GetPopularClasses(year int) ([]models.ClassPopularity, error)
	GetMonthLabels() []string

	GetDashboardSummary() (*models.DashboardSummary, error)
}

// --- reportService Implementation ---
type reportService struct {
	reportRepo     repositories.ReportRepository
	memberRepo     repositories.MemberRepository
	attendanceRepo repositories.AttendanceRepository
	paymentRepo    repositories.PaymentRepository
	classRepo      repositories.ClassRepository
	now            func() time.Time
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	reportRepo repositories.ReportRepository,
	memberRepo repositories.MemberRepository,
	attendanceRepo repositories.AttendanceRepository,
	paymentRepo repositories.PaymentRepository,
	classRepo repositories.ClassRepository,
) ReportService {
	return &reportService{
		reportRepo:     reportRepo,
		memberRepo:     memberRepo,
		attendanceRepo: attendanceRepo,
		paymentRepo:    paymentRepo,
		classRepo:      classRepo,
		now:            time.Now,
	}
}

func (s *reportService) GetReports() ([]models.Report, error) {
	reports, err := s.reportRepo.GetReports()
	if err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}
	return reports, nil
}

func (s *reportService) GetReportByID(reportID int64) (*models.Report, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report %d: %w", reportID, err)
	}
	return report, nil
}

func (s *reportService) GetReportParameters(reportID int64) (*models.ReportParameters, error) {
	report, err := s.reportRepo.GetReportByID(reportID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report %d: %w", reportID, err)
	}

	return &models.ReportParameters{
		FunctionName: report.FunctionName,
		ReportType: models.ReportChartType{
			Type:            report.ChartType,
			Label:           report.Label,
			LabelProperty:   report.LabelProperty,
			DataProperty:    report.DataProperty,
			BackgroundColor: report.BackgroundColor,
			BorderColor:     report.BorderColor,
		},
	}, nil
}

func (s *reportService) GetMembershipGrowth(year int) ([]models.MonthlyCount, error) {
	buckets, err := s.reportRepo.GetMonthlyContractCounts(year)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership growth: %w", err)
	}
	return buckets, nil
}

func (s *reportService) GetAttendanceTrend(year int) ([]models.MonthlyCount, error) {
	buckets, err := s.reportRepo.GetMonthlyAttendanceCounts(year)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance trend: %w", err)
	}
	return buckets, nil
}

func (s *reportService) GetMembershipRevenue(year int) ([]models.MonthlyRevenue, error) {
	buckets, err := s.reportRepo.GetMonthlyPaymentRevenue(year)
	if err != nil {
		return nil, fmt.Errorf("failed to get membership revenue: %w", err)
	}
	return buckets, nil
}

func (s *reportService) GetPopularClasses(year int) ([]models.ClassPopularity, error) {
	results, err := s.reportRepo.GetPopularClasses(year, PopularClassLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular classes: %w", err)
	}
	return results, nil
}

func (s *reportService) GetMonthLabels() []string {
	labels := make([]string, len(monthLabels))
	copy(labels, monthLabels)
	return labels
}

func (s *reportService) GetDashboardSummary() (*models.DashboardSummary, error) {
	totalMembers, err := s.memberRepo.CountMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	today := startOfDay(s.now())
	checkIns, err := s.attendanceRepo.CountCheckInsForDay(today)
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	pending, err := s.paymentRepo.CountPendingPayments()
	if err != nil {
		return nil, fmt.Errorf("failed to count pending payments: %w", err)
	}

	upcoming, err := s.classRepo.CountUpcomingClasses(UpcomingClassWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to count upcoming classes: %w", err)
	}

	return &models.DashboardSummary{
		TotalMembers:         totalMembers,
		CheckInsToday:        checkIns,
		PendingPaymentsCount: pending,
		UpcomingClassesCount: upcoming,
	}, nil
}
