package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.ListNotifications)
	notifications.POST("", notificationHandler.CreateNotification)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)
	notifications.GET("/:id", notificationHandler.GetNotification)
	notifications.PATCH("/:id", notificationHandler.UpdateNotification)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
}
