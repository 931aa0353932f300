package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	classHandler        *ClassHandler
	studentHandler      *StudentHandler
	attendanceHandler   *AttendanceHandler
	permissionHandler   *PermissionHandler
	dashboardHandler    *DashboardHandler
	exportHandler       *ExportHandler
	snapshotHandler     *SnapshotHandler
	notificationHandler *NotificationHandler
	authMiddleware      *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.Auth(), logger),
		classHandler:        NewClassHandler(serviceManager.Class(), logger),
		studentHandler:      NewStudentHandler(serviceManager.Student(), logger),
		attendanceHandler:   NewAttendanceHandler(serviceManager.Attendance(), logger),
		permissionHandler:   NewPermissionHandler(serviceManager.Permission(), logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), logger),
		exportHandler:       NewExportHandler(serviceManager.Export(), logger),
		snapshotHandler:     NewSnapshotHandler(serviceManager.Snapshot(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		authMiddleware:      NewJWTAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public auth routes
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/student-login", hm.authHandler.StudentLogin)
	}

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		v1.POST("/auth/logout", hm.authHandler.Logout)
		v1.GET("/auth/me", hm.authHandler.Me)

		// Class routes - Teachers only for writes
		classes := v1.Group("/classes")
		{
			classes.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.classHandler.CreateClass)
			classes.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.classHandler.UpdateClass)
			classes.GET("", hm.classHandler.ListClasses)
			classes.GET("/:id", hm.classHandler.GetClass)
			classes.GET("/:id/roster", hm.studentHandler.GetRoster)
		}

		// Student roster routes - Teachers only for writes
		students := v1.Group("/students")
		{
			students.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.studentHandler.CreateStudent)
			students.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.studentHandler.UpdateStudent)
			students.POST("/:id/archive", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.studentHandler.ArchiveStudent)
			students.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.studentHandler.ListStudents)
			students.GET("/:id", hm.studentHandler.GetStudent)

			// Student self-service routes
			students.GET("/me/dashboard", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.dashboardHandler.GetStudentDashboard)
		}

		// Attendance routes - Teachers only for writes
		attendance := v1.Group("/attendance")
		{
			attendance.POST("/sheet", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.attendanceHandler.RecordSheet)
			attendance.PUT("/:id/override", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.attendanceHandler.OverrideStatus)
			attendance.GET("/sheet", hm.attendanceHandler.GetSheet)
			attendance.GET("", hm.attendanceHandler.ListRecords)
			attendance.GET("/:id", hm.attendanceHandler.GetRecord)
		}

		// Permission request routes - students file, teachers resolve
		permissions := v1.Group("/permissions")
		{
			permissions.POST("", hm.permissionHandler.SubmitRequest)
			permissions.PUT("/:id/resolve", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.permissionHandler.ResolveRequest)
			permissions.GET("", hm.permissionHandler.ListRequests)
			permissions.GET("/:id", hm.permissionHandler.GetRequest)
		}

		// Dashboard routes - Teachers only
		dashboard := v1.Group("/dashboard")
		dashboard.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			dashboard.GET("/overview", hm.dashboardHandler.GetOverview)
			dashboard.GET("/classes/:id/stats", hm.dashboardHandler.GetClassStats)
		}

		// Export routes - Teachers only
		export := v1.Group("/export")
		export.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			export.GET("/attendance.csv", hm.exportHandler.ExportCSV)
			export.GET("/attendance.xlsx", hm.exportHandler.ExportXLSX)
		}

		// Snapshot routes - Teachers only
		snapshot := v1.Group("/snapshot")
		snapshot.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			snapshot.GET("", hm.snapshotHandler.ExportSnapshot)
			snapshot.POST("", hm.snapshotHandler.ImportSnapshot)
		}

		// Notification routes - Teachers only
		notifications := v1.Group("/notifications")
		notifications.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher))
		{
			notifications.POST("/bulk", hm.notificationHandler.SendBulkNotification)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "attendance-service",
		})
	})
}
