package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	BaseHandler
	service services.ExportService
}

func NewExportHandler(service services.ExportService, logger utils.Logger) *ExportHandler {
	return &ExportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ExportCSV downloads matching attendance records as CSV
// @Summary Export attendance CSV
// @Description Render matching attendance records as a CSV download
// @Tags export
// @Produce text/csv
// @Param class_id query string false "Filter by class"
// @Param student_id query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Param date_from query string false "From date (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "To date (YYYY-MM-DD, inclusive)"
// @Success 200 {string} string "CSV data"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /export/attendance.csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	filters, ok := h.exportFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting attendance CSV", "class_id", filters.ClassID)

	data, err := h.service.ExportAttendanceCSV(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportXLSX downloads matching attendance records as an Excel workbook
// @Summary Export attendance XLSX
// @Description Build an Excel workbook of matching attendance records
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param class_id query string false "Filter by class"
// @Param student_id query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Param date_from query string false "From date (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "To date (YYYY-MM-DD, inclusive)"
// @Success 200 {string} string "Workbook data"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /export/attendance.xlsx [get]
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	filters, ok := h.exportFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting attendance XLSX", "class_id", filters.ClassID)

	data, err := h.service.ExportAttendanceXLSX(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func (h *ExportHandler) exportFilters(c *gin.Context) (repositories.AttendanceFilters, bool) {
	filters := repositories.AttendanceFilters{
		ClassID:   c.Query("class_id"),
		StudentID: c.Query("student_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.AttendanceStatus(statusStr)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid attendance status filter",
			})
			return filters, false
		}
		filters.Status = &status
	}

	return filters, true
}
