package routes

import (
	"github.com/gin-gonic/gin"

	"cargolink_backend/internal/handlers"
	"cargolink_backend/internal/logger"
	"cargolink_backend/internal/middleware"
	"cargolink_backend/ws"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			appHandlers.OrderHandler.RegisterRoutes(protected)
			appHandlers.TransportHandler.RegisterRoutes(protected)
			appHandlers.MatchingHandler.RegisterRoutes(protected)
			appHandlers.NotificationHandler.RegisterRoutes(protected)
			appHandlers.BlockHandler.RegisterRoutes(protected)
		}
	}

	// Регистрация WebSocket
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
