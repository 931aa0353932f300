package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetOverview returns the teacher dashboard overview
// @Summary Teacher overview
// @Description Aggregate counts across classes and today's attendance
// @Tags dashboard
// @Produce json
// @Success 200 {object} repositories.TeacherOverview
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	h.LogRequest(c, "Getting teacher overview")

	overview, err := h.service.GetTeacherOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetClassStats returns attendance statistics for one class
// @Summary Class statistics
// @Description Attendance counts and rate for a class over an optional date range
// @Tags dashboard
// @Produce json
// @Param id path string true "Class ID"
// @Param date_from query string false "From date (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "To date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} repositories.ClassAttendanceStats
// @Failure 404 {object} ErrorResponse "Class not found"
// @Router /dashboard/classes/{id}/stats [get]
func (h *DashboardHandler) GetClassStats(c *gin.Context) {
	classID := c.Param("id")

	h.LogRequest(c, "Getting class stats", "class_id", classID)

	stats, err := h.service.GetClassStats(c.Request.Context(), classID, c.Query("date_from"), c.Query("date_to"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStudentDashboard returns the dashboard for the current student
// @Summary Student dashboard
// @Description Attendance stats, recent records, and pending requests for the authenticated student
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.StudentDashboardResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Student not found"
// @Router /students/me/dashboard [get]
func (h *DashboardHandler) GetStudentDashboard(c *gin.Context) {
	session, ok := getSession(c)
	if !ok || session.StudentID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Getting student dashboard", "student_id", session.StudentID)

	dashboard, err := h.service.GetStudentDashboard(c.Request.Context(), session.StudentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
