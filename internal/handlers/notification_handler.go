package handlers

import (
	"net/http"
	"strconv"

	"foodshare-service/internal/service"
	"foodshare-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications handles GET /api/v1/notifications
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unreadOnly  query     bool  false  "Only unread notifications"
// @Param        page        query     int   false  "Page"
// @Param        limit       query     int   false  "Page size"
// @Success      200         {object}  Envelope{data=NotificationListResponse}
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	unreadOnly := false
	if raw := c.Query("unreadOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, errors.NewValidationError("unreadOnly must be a boolean", "unreadOnly"))
			return
		}
		unreadOnly = v
	}

	result, err := h.notifications.ListNotifications(c.Request.Context(), caller(c), unreadOnly, page)
	if err != nil {
		fail(c, err)
		return
	}
	out := NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(result.Notifications)),
		Pagination:    newPagination(result.Total, result.Page, result.Limit),
	}
	for i := range result.Notifications {
		out.Notifications = append(out.Notifications, toNotificationResponse(&result.Notifications[i]))
	}
	respond(c, http.StatusOK, "Notifications retrieved successfully", out)
}

// MarkRead handles PUT /api/v1/notifications/:id/read
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID (UUID)"
// @Success      200  {object}  Envelope{data=NotificationResponse}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	n, err := h.notifications.MarkRead(c.Request.Context(), id, caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification marked as read", toNotificationResponse(n))
}

// MarkAllRead handles PUT /api/v1/notifications/read-all
// @Summary      Mark every notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	count, err := h.notifications.MarkAllRead(c.Request.Context(), caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "All notifications marked as read", gin.H{"updated": count})
}

// DeleteNotification handles DELETE /api/v1/notifications/:id
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID (UUID)"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.DeleteNotification(c.Request.Context(), id, caller(c)); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Notification deleted successfully", nil)
}
