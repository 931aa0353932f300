package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/repositories"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type AttendanceHandler struct {
	BaseHandler
	service services.AttendanceService
}

func NewAttendanceHandler(service services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RecordSheet submits the daily attendance sheet for a class
// @Summary Record daily sheet
// @Description Record attendance for a class on a date; roster students without an entry default to ABSENT, and the sheet locks on save
// @Tags attendance
// @Accept json
// @Produce json
// @Param sheet body services.AttendanceSheetRequest true "Sheet data"
// @Success 201 {array} models.AttendanceRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Class not found"
// @Failure 409 {object} ErrorResponse "Sheet already recorded for this date"
// @Router /attendance/sheet [post]
func (h *AttendanceHandler) RecordSheet(c *gin.Context) {
	var req services.AttendanceSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, ok := getSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Recording attendance sheet", "class_id", req.ClassID, "date", req.Date)

	records, err := h.service.RecordDailySheet(c.Request.Context(), session, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, records)
}

// OverrideStatus corrects a locked attendance record
// @Summary Override attendance status
// @Description Change the status of a locked record, appending an audit entry with the actor and reason
// @Tags attendance
// @Accept json
// @Produce json
// @Param id path string true "Attendance record ID"
// @Param override body services.OverrideRequest true "New status and reason"
// @Success 200 {object} models.AttendanceRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /attendance/{id}/override [put]
func (h *AttendanceHandler) OverrideStatus(c *gin.Context) {
	id := c.Param("id")

	var req services.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	session, ok := getSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return
	}

	h.LogRequest(c, "Overriding attendance status", "record_id", id, "status", req.Status)

	record, err := h.service.OverrideStatus(c.Request.Context(), session, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetRecord retrieves an attendance record by ID
// @Summary Get attendance record
// @Tags attendance
// @Produce json
// @Param id path string true "Attendance record ID"
// @Success 200 {object} models.AttendanceRecord
// @Failure 404 {object} ErrorResponse "Record not found"
// @Router /attendance/{id} [get]
func (h *AttendanceHandler) GetRecord(c *gin.Context) {
	id := c.Param("id")

	h.LogRequest(c, "Getting attendance record", "record_id", id)

	record, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetSheet returns the sheet of a class on a date
// @Summary Get daily sheet
// @Description Return the records of a class on one date plus the roster students not yet marked
// @Tags attendance
// @Produce json
// @Param class_id query string true "Class ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} services.SheetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Class not found"
// @Router /attendance/sheet [get]
func (h *AttendanceHandler) GetSheet(c *gin.Context) {
	classID := c.Query("class_id")
	date := c.Query("date")
	if classID == "" || date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "class_id and date query parameters are required",
		})
		return
	}

	h.LogRequest(c, "Getting attendance sheet", "class_id", classID, "date", date)

	sheet, err := h.service.GetSheet(c.Request.Context(), classID, date)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sheet)
}

// ListRecords lists attendance records with filters
// @Summary List attendance records
// @Tags attendance
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param class_id query string false "Filter by class"
// @Param student_id query string false "Filter by student"
// @Param status query string false "Filter by status: PRESENT, ABSENT, PERMISSION"
// @Param date_from query string false "From date (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "To date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} services.AttendanceListResponse
// @Failure 401 {object} ErrorResponse
// @Router /attendance [get]
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	h.LogRequest(c, "Listing attendance records")

	page, size := parsePagination(c)

	filters := repositories.AttendanceFilters{
		ClassID:   c.Query("class_id"),
		StudentID: c.Query("student_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    c.DefaultQuery("sort_by", "date"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.AttendanceStatus(statusStr)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid attendance status filter",
			})
			return
		}
		filters.Status = &status
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
