package handlers

import (
	"net/http"

	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	recorder *services.Recorder
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(recorder *services.Recorder) *NotificationHandler {
	return &NotificationHandler{recorder: recorder}
}

// RegisterNotificationRoutes registers routes under /notifications
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.PUT("/mark-read", h.MarkAllAsRead)
	g.GET("/unread-count", h.GetUnreadCount)
}

func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	notifications, err := h.recorder.ListNotifications(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.recorder.MarkAllRead(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	count, err := h.recorder.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"count": count})
}
