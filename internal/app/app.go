package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"cargolink_backend/database"
	"cargolink_backend/internal/config"
	"cargolink_backend/internal/handlers"
	"cargolink_backend/internal/logger"
	"cargolink_backend/internal/middleware"
	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/routes"
	"cargolink_backend/internal/services"
	"cargolink_backend/internal/validator"
	"cargolink_backend/internal/workers"
	"cargolink_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ginRouter, matchWorker, transportWorker := SetupApp(ctx, cfg, gormDB)

	if err := transportWorker.Start(); err != nil {
		logger.Fatal("Failed to start transport worker", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: address, Handler: ginRouter}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	// Graceful shutdown: сначала HTTP, затем воркеры
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	transportWorker.Stop()
	cancel()
	matchWorker.Wait()
	logger.Info("Server stopped")
}

// SetupApp собирает зависимости приложения и возвращает роутер и воркеры.
// Воркер подбора запускается сразу, cron-воркер — на стороне вызывающего.
func SetupApp(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.MatchWorker, *workers.TransportWorker) {
	// Репозитории
	userRepo := repositories.NewUserRepository(gormDB)
	orderRepo := repositories.NewOrderRepository(gormDB)
	transportRepo := repositories.NewTransportRepository(gormDB)
	blockRepo := repositories.NewBlockRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)

	// WebSocket
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// Сервисы
	notificationService := services.NewNotificationService(notificationRepo, wsManager)
	matchingService := services.NewMatchingService(orderRepo, transportRepo, blockRepo, notificationService, cfg)

	matchWorker := workers.NewMatchWorker(matchingService, cfg)
	matchWorker.Start(ctx)

	transportWorker := workers.NewTransportWorker(transportRepo, notificationService, cfg)

	serviceContainer := &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo),
		OrderService:        services.NewOrderService(orderRepo, matchWorker),
		TransportService:    services.NewTransportService(transportRepo, matchWorker),
		BlockService:        services.NewBlockService(blockRepo, userRepo),
		MatchingService:     matchingService,
		NotificationService: notificationService,
	}

	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter, matchWorker, transportWorker
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		OrderHandler:        handlers.NewOrderHandler(baseHandler, container.OrderService),
		TransportHandler:    handlers.NewTransportHandler(baseHandler, container.TransportService),
		BlockHandler:        handlers.NewBlockHandler(baseHandler, container.BlockService),
		MatchingHandler:     handlers.NewMatchingHandler(baseHandler, container.MatchingService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}
