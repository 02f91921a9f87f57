package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/middleware"
	"tradepost/internal/infrastructure/auth"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, tokens *auth.TokenManager) {
	SetupAuthRouter(e)
	SetupUserRouter(e, authMiddleware)
	SetupProductRouter(e, authMiddleware, tokens)
	SetupOrderRouter(e, authMiddleware, adminMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
