package handler

import (
	"net/http"
	"strconv"

	"relief-exchange/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetNotifications godoc
// @Summary   The caller's inbox, newest first
// @Tags      notifications
// @Produce   json
// @Param     unread  query    bool  false  "only unread"
// @Param     limit   query    int   false  "page size"
// @Param     offset  query    int   false  "page offset"
// @Success   200     {array}  entity.Notification
// @Security  BearerAuth
// @Router    /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	unreadOnly, _ := strconv.ParseBool(c.Query("unread"))

	list, err := h.notificationService.GetNotifications(c.Request.Context(), actorFrom(c), unreadOnly, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// UnreadCount godoc
// @Summary   Number of unread notifications
// @Tags      notifications
// @Produce   json
// @Success   200  {object}  map[string]int64
// @Security  BearerAuth
// @Router    /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notificationService.UnreadCount(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// MarkAsRead godoc
// @Summary   Mark one notification read
// @Tags      notifications
// @Param     id  path  string  true  "notification id"
// @Success   204
// @Failure   404  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAsRead(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllAsRead godoc
// @Summary   Mark every notification read
// @Tags      notifications
// @Produce   json
// @Success   200  {object}  map[string]int64
// @Security  BearerAuth
// @Router    /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	n, err := h.notificationService.MarkAllAsRead(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
