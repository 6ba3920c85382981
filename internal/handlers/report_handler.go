package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gym_backend/internal/services"
	"gym_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler handles report, dashboard and membership catalog requests.
type ReportHandler struct {
	reportService services.ReportService
	tierCatalog   *services.TierCatalog
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportService, tierCatalog *services.TierCatalog) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		tierCatalog:   tierCatalog,
	}
}

// yearParam reads the ?year= query parameter, defaulting to the current year.
func yearParam(c *gin.Context) (int, bool) {
	value := c.Query("year")
	if value == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(value)
	if err != nil || year < 1900 || year > 9999 {
		utils.RespondValidationFailed(c, "invalid year parameter")
		return 0, false
	}
	return year, true
}

// GetReports handles GET /reports.
func (h *ReportHandler) GetReports(c *gin.Context) {
	reports, err := h.reportService.GetReports()
	if err != nil {
		utils.LogError(err, "Failed to get reports")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve reports", ""))
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetReportByID handles GET /reports/:id.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.GetReportByID(id)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Report not found", ""))
			return
		}
		utils.LogError(err, "Failed to get report")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve report", ""))
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReportParameters handles GET /reports/:id/parameters.
func (h *ReportHandler) GetReportParameters(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params, err := h.reportService.GetReportParameters(id)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Report not found", ""))
			return
		}
		utils.LogError(err, "Failed to get report parameters")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve report parameters", ""))
		return
	}

	c.JSON(http.StatusOK, params)
}

// GetMembershipGrowth handles GET /reports/membership-growth.
func (h *ReportHandler) GetMembershipGrowth(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	buckets, err := h.reportService.GetMembershipGrowth(year)
	if err != nil {
		utils.LogError(err, "Failed to get membership growth")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve membership growth", ""))
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetAttendanceTrend handles GET /reports/attendance-trend.
func (h *ReportHandler) GetAttendanceTrend(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	buckets, err := h.reportService.GetAttendanceTrend(year)
	if err != nil {
		utils.LogError(err, "Failed to get attendance trend")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve attendance trend", ""))
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetMembershipRevenue handles GET /reports/membership-revenue.
func (h *ReportHandler) GetMembershipRevenue(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	buckets, err := h.reportService.GetMembershipRevenue(year)
	if err != nil {
		utils.LogError(err, "Failed to get membership revenue")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve membership revenue", ""))
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// GetPopularClasses handles GET /reports/popular-classes.
func (h *ReportHandler) GetPopularClasses(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	results, err := h.reportService.GetPopularClasses(year)
	if err != nil {
		utils.LogError(err, "Failed to get popular classes")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve popular classes", ""))
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetMonthLabels handles GET /reports/month-labels.
func (h *ReportHandler) GetMonthLabels(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.GetMonthLabels())
}

// GetDashboardSummary handles GET /dashboard/summary. Employee only.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	summary, err := h.reportService.GetDashboardSummary()
	if err != nil {
		utils.LogError(err, "Failed to build dashboard summary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard summary", ""))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetMembershipTypes handles GET /membership-types. Public catalog for the
// signup page.
func (h *ReportHandler) GetMembershipTypes(c *gin.Context) {
	tiers, err := h.tierCatalog.GetTiers()
	if err != nil {
		utils.LogError(err, "Failed to load membership tier catalog")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to load membership types", ""))
		return
	}
	c.JSON(http.StatusOK, tiers)
}
