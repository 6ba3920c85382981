package models

import "github.com/shopspring/decimal"

// Report is a stored report descriptor. It is configuration, not computed
// data: it selects which aggregation runs and how the chart is rendered.
type Report struct {
	ReportID        int64  `json:"report_id" db:"report_id"`
	ReportName      string `json:"report_name" db:"report_name"`
	FunctionName    string `json:"function_name" db:"function_name"`
	ChartType       string `json:"chart_type" db:"chart_type"`
	Label           string `json:"label" db:"label"`
	LabelProperty   string `json:"label_property" db:"label_property"`
	DataProperty    string `json:"data_property" db:"data_property"`
	BackgroundColor string `json:"background_color" db:"background_color"`
	BorderColor     string `json:"border_color" db:"border_color"`
}

// ReportParameters is the chart descriptor returned to the dashboard.
type ReportParameters struct {
	FunctionName string          `json:"functionName"`
	ReportType   ReportChartType `json:"ReportType"`
}

// ReportChartType carries the chart rendering metadata.
type ReportChartType struct {
	Type            string `json:"type"`
	Label           string `json:"label"`
	LabelProperty   string `json:"labelProperty"`
	DataProperty    string `json:"dataProperty"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
}

// MonthlyCount is one sparse (year-month, count) bucket, labeled "YYYY-MM".
type MonthlyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MonthlyRevenue is one sparse (year-month, sum) bucket, labeled "YYYY-MM".
type MonthlyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ClassPopularity ranks a class name by enrollment count.
type ClassPopularity struct {
	ClassName       string `json:"class_name"`
	AttendanceCount int    `json:"attendance_count"`
}

// DashboardSummary is the front-desk overview.
type DashboardSummary struct {
	TotalMembers         int `json:"total_members"`
	CheckInsToday        int `json:"check_ins_today"`
	PendingPaymentsCount int `json:"pending_payments_count"`
	UpcomingClassesCount int `json:"upcoming_classes_count"`
}
