package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tradepost/internal/adapter/api"
	"tradepost/internal/adapter/api/handler"
	apimiddleware "tradepost/internal/adapter/api/middleware"
	"tradepost/internal/adapter/api/router"
	"tradepost/internal/adapter/repository"
	"tradepost/internal/infrastructure/auth"
	"tradepost/internal/infrastructure/postgres"
	"tradepost/internal/usecase"
	"tradepost/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiryMinutes)

	userRepo := repository.NewPostgresUserRepository(pool)
	productRepo := repository.NewPostgresProductRepository(pool)
	orderRepo := repository.NewPostgresOrderRepository(pool)
	notificationRepo := repository.NewPostgresNotificationRepository(pool)

	authUseCase := usecase.NewAuthUseCase(userRepo, tokens)
	userUseCase := usecase.NewUserUseCase(userRepo)
	productUseCase := usecase.NewProductUseCase(productRepo)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, notificationRepo, cfg.RestockOnCancel)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo)

	handler.Setup(authUseCase, userUseCase, productUseCase, orderUseCase, notificationUseCase)
	handler.SetupHealthHandler(pool)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(tokens)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, authMiddleware, adminMiddleware, tokens)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
