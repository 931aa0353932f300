package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type SnapshotHandler struct {
	BaseHandler
	service services.SnapshotService
}

func NewSnapshotHandler(service services.SnapshotService, logger utils.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ExportSnapshot dumps the full dataset as a versioned snapshot
// @Summary Export snapshot
// @Description Dump users, classes, students, attendance, and permission requests as one versioned document
// @Tags snapshot
// @Produce json
// @Success 200 {object} models.Snapshot
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /snapshot [get]
func (h *SnapshotHandler) ExportSnapshot(c *gin.Context) {
	h.LogRequest(c, "Exporting snapshot")

	snapshot, err := h.service.Export(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="attendance_snapshot.json"`)
	c.JSON(http.StatusOK, snapshot)
}

// ImportSnapshot replaces the dataset with a snapshot
// @Summary Import snapshot
// @Description Replace all data with the contents of a snapshot; versions other than the supported one are rejected
// @Tags snapshot
// @Accept json
// @Produce json
// @Param snapshot body models.Snapshot true "Snapshot document"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Malformed body or unsupported version"
// @Failure 401 {object} ErrorResponse
// @Router /snapshot [post]
func (h *SnapshotHandler) ImportSnapshot(c *gin.Context) {
	var snapshot models.Snapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Importing snapshot", "version", snapshot.Version)

	if err := h.service.Import(c.Request.Context(), &snapshot); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Snapshot imported successfully",
	})
}
