package router

import (
	"database/sql"

	"gym_backend/internal/handlers"
	"gym_backend/internal/middleware"
	"gym_backend/internal/models"
	"gym_backend/internal/repositories"
	"gym_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers and registers every route
// on the given engine.
func Setup(r *gin.Engine, db *sql.DB, tierCatalogPath string) {
	// Repositories
	memberRepo := repositories.NewMemberRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	classRepo := repositories.NewClassRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Services
	attendanceService := services.NewAttendanceService(attendanceRepo, db)
	authService := services.NewAuthService(memberRepo, employeeRepo, attendanceService)
	memberService := services.NewMemberService(memberRepo, db)
	employeeService := services.NewEmployeeService(employeeRepo, memberRepo, db)
	contractService := services.NewContractService(contractRepo, db)
	paymentService := services.NewPaymentService(paymentRepo, contractRepo, db)
	classService := services.NewClassService(classRepo, employeeRepo, db)
	reportService := services.NewReportService(reportRepo, memberRepo, attendanceRepo, paymentRepo, classRepo)
	tierCatalog := services.NewTierCatalog(tierCatalogPath)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, memberService)
	memberHandler := handlers.NewMemberHandler(memberService, contractService, paymentService, classService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	contractHandler := handlers.NewContractHandler(contractService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	classHandler := handlers.NewClassHandler(classService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reportHandler := handlers.NewReportHandler(reportService, tierCatalog)

	auth := middleware.AuthMiddleware()
	employeeOnly := middleware.RoleAuthMiddleware(models.RoleGymEmployee)

	// Public routes: login, registration and the signup page catalog.
	r.POST("/auth/login", authHandler.Login)
	r.GET("/auth/username-taken", authHandler.UsernameTaken)
	r.POST("/members", memberHandler.CreateMember)
	r.GET("/membership-types", reportHandler.GetMembershipTypes)

	// Authenticated routes for any role.
	authGroup := r.Group("/", auth)
	{
		authGroup.POST("/auth/logout", authHandler.Logout)
		authGroup.GET("/auth/me", authHandler.Me)

		// Members may only reach their own id; the handlers enforce that.
		authGroup.GET("/members/:id", memberHandler.GetMemberByID)
		authGroup.PUT("/members/:id", memberHandler.UpdateMember)
		authGroup.GET("/members/:id/contract-status", memberHandler.GetContractStatus)
		authGroup.GET("/members/:id/payment-eligibility", memberHandler.GetPaymentEligibility)
		authGroup.GET("/members/:id/calendar", memberHandler.GetMemberCalendar)

		authGroup.POST("/contracts", contractHandler.CreateContract)
		authGroup.GET("/contracts", contractHandler.GetContracts)
		authGroup.GET("/contracts/:id", contractHandler.GetContractByID)

		authGroup.GET("/classes", classHandler.GetClasses)
		authGroup.GET("/classes/available", classHandler.GetAvailableClasses)
		authGroup.GET("/classes/calendar", classHandler.GetClassCalendar)
		authGroup.GET("/classes/joined", classHandler.GetJoinedClasses)
		authGroup.GET("/classes/:id", classHandler.GetClassByID)
		authGroup.POST("/classes/:id/join", classHandler.ToggleEnrollment)

		authGroup.POST("/payments", paymentHandler.StorePayment)
		authGroup.GET("/payments/details", paymentHandler.GetPaymentDetails)

		authGroup.GET("/employees/instructors", employeeHandler.GetInstructors)
	}

	// Staff-facing routes.
	staff := r.Group("/", auth, employeeOnly)
	{
		staff.GET("/members", memberHandler.GetMembers)
		staff.DELETE("/members/:id", memberHandler.DeleteMember)

		staff.POST("/employees", employeeHandler.CreateEmployee)
		staff.GET("/employees", employeeHandler.GetEmployees)
		staff.GET("/employees/:id", employeeHandler.GetEmployeeByID)
		staff.PUT("/employees/:id", employeeHandler.UpdateEmployee)
		staff.DELETE("/employees/:id", employeeHandler.DeleteEmployee)

		staff.PUT("/contracts/:id", contractHandler.UpdateContract)
		staff.DELETE("/contracts/:id", contractHandler.DeleteContract)

		staff.GET("/attendances", attendanceHandler.GetAttendances)
		staff.GET("/attendances/:id", attendanceHandler.GetAttendanceByID)
		staff.POST("/attendances", attendanceHandler.CreateAttendance)
		staff.PUT("/attendances/:id", attendanceHandler.UpdateAttendance)
		staff.DELETE("/attendances/:id", attendanceHandler.DeleteAttendance)

		staff.POST("/classes", classHandler.CreateClass)
		staff.PUT("/classes/:id", classHandler.UpdateClass)
		staff.DELETE("/classes/:id", classHandler.DeleteClass)

		staff.GET("/payments/pending", paymentHandler.GetPendingPayments)
		staff.POST("/payments/:id/confirm", paymentHandler.ConfirmPayment)
		staff.POST("/payments/confirm-all", paymentHandler.ConfirmAllPayments)

		staff.GET("/reports", reportHandler.GetReports)
		staff.GET("/reports/:id", reportHandler.GetReportByID)
		staff.GET("/reports/month-labels", reportHandler.GetMonthLabels)
		staff.GET("/reports/membership-growth", reportHandler.GetMembershipGrowth)
		staff.GET("/reports/attendance-trend", reportHandler.GetAttendanceTrend)
		staff.GET("/reports/membership-revenue", reportHandler.GetMembershipRevenue)
		staff.GET("/reports/popular-classes", reportHandler.GetPopularClasses)
		staff.GET("/reports/:id/parameters", reportHandler.GetReportParameters)

		staff.GET("/dashboard/summary", reportHandler.GetDashboardSummary)
	}
}
