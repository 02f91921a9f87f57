package handler

import (
	"tradepost/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	productHandler      *ProductHandler
	orderHandler        *OrderHandler
	notificationHandler *NotificationHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	orderUseCase *usecase.OrderUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}
