package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cargolink_backend/internal/models"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services"
	"cargolink_backend/internal/services/dto"
	"cargolink_backend/pkg/apperrors"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(api *gin.RouterGroup) {
	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/read", h.MarkRead)
		notifications.POST("/read-all", h.MarkAllRead)
	}
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria repositories.NotificationCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.notificationService.GetUserNotifications(userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// POST /api/notifications/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.MarkReadRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	updated, err := h.notificationService.MarkMultipleAsRead(userID, req.IDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/notifications/unread-count?type=&related_id=
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var filter struct {
		Type      string `form:"type"`
		RelatedID string `form:"related_id"`
	}
	if !h.BindAndValidateQuery(c, &filter) {
		return
	}

	count, err := h.notificationService.GetUnreadCount(userID, models.NotificationType(filter.Type), filter.RelatedID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownNotificationType) {
			apperrors.HandleError(c, apperrors.NewBadRequestError(err.Error()))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
