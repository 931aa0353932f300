package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/attendance-service/internal/services"
	"github.com/SAP-F-2025/attendance-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	service services.NotificationEventService
}

func NewNotificationHandler(service services.NotificationEventService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// BulkNotificationRequest targets a message at a set of users.
type BulkNotificationRequest struct {
	UserIDs []string `json:"user_ids" binding:"required,min=1"`
	Title   string   `json:"title" binding:"required"`
	Message string   `json:"message" binding:"required"`
}

// SendBulkNotification publishes a notification event for a set of users
// @Summary Send bulk notification
// @Description Publish a notification event fanned out to the given users
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body BulkNotificationRequest true "Notification data"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /notifications/bulk [post]
func (h *NotificationHandler) SendBulkNotification(c *gin.Context) {
	var req BulkNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Sending bulk notification", "recipients", len(req.UserIDs))

	err := h.service.SendBulkNotification(c.Request.Context(), req.UserIDs, &services.NotificationRequest{
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, SuccessResponse{
		Message: "Notification queued",
	})
}
