package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	apperrors "tradepost/pkg/errors"
	"tradepost/pkg/logger"
	"tradepost/pkg/utils"
)

type OrderUseCase struct {
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	notificationRepo repository.NotificationRepository

	// restockOnCancel decides whether cancelling an order puts the product
	// back on the market.
	restockOnCancel bool
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notificationRepo repository.NotificationRepository,
	restockOnCancel bool,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		notificationRepo: notificationRepo,
		restockOnCancel:  restockOnCancel,
	}
}

type PurchaseInput struct {
	ProductID  uuid.UUID
	BuyerNotes string
}

// Purchase transitions a product from available to sold and records the
// order, as one atomic unit. Preconditions are checked in a fixed sequence,
// each with its own failure: missing product, already sold, self-purchase.
// The final guard against two buyers racing past the sold check lives in
// the repository's conditional update.
func (uc *OrderUseCase) Purchase(ctx context.Context, buyerID uuid.UUID, input PurchaseInput) (*entity.Order, error) {
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product", err)
		}
		return nil, apperrors.Internal("Failed to look up product", err)
	}

	if product.Sold {
		return nil, apperrors.Conflict("product already sold")
	}

	if product.OwnerID == buyerID {
		return nil, apperrors.InvalidOperation("cannot buy own product")
	}

	if !product.IsActive {
		return nil, apperrors.Conflict("product is not available")
	}

	productID := product.ID
	order := &entity.Order{
		OrderNumber:  generateOrderNumber(),
		BuyerID:      buyerID,
		SellerID:     product.OwnerID,
		Subtotal:     product.Price,
		Taxes:        decimal.Zero,
		ShippingCost: decimal.Zero,
		Discounts:    decimal.Zero,
		Currency:     product.Currency,
		Status:       entity.OrderStatusPending,
		BuyerNotes:   input.BuyerNotes,
		Items: []entity.OrderItem{
			{
				ProductID: &productID,
				Title:     product.Title,
				Quantity:  1,
				UnitPrice: product.Price,
				Currency:  product.Currency,
			},
		},
	}
	order.Total = order.ComputeTotal()

	if err := order.Validate(); err != nil {
		return nil, apperrors.Internal("Order failed invariant check", err)
	}

	if err := uc.orderRepo.CreatePurchase(ctx, order, product.ID); err != nil {
		if errors.Is(err, repository.ErrProductSold) {
			return nil, apperrors.Conflict("product already sold")
		}
		return nil, apperrors.Internal("Failed to create order", err)
	}

	uc.notifyPurchase(ctx, order, product)

	return order, nil
}

// notifyPurchase records order notifications for both parties. Failures are
// logged, never surfaced: the purchase has already committed.
func (uc *OrderUseCase) notifyPurchase(ctx context.Context, order *entity.Order, product *entity.Product) {
	notifications := []*entity.Notification{
		{
			UserID:   order.BuyerID,
			Type:     entity.NotificationTypeOrder,
			Title:    "Order placed",
			Message:  fmt.Sprintf("Your order %s for %q was placed.", order.OrderNumber, product.Title),
			Priority: 2,
		},
		{
			UserID:   order.SellerID,
			Type:     entity.NotificationTypeOrder,
			Title:    "Product sold",
			Message:  fmt.Sprintf("Your product %q was sold (order %s).", product.Title, order.OrderNumber),
			Priority: 2,
		},
	}

	for _, n := range notifications {
		if err := uc.notificationRepo.Create(ctx, n); err != nil {
			logger.Warn("Failed to create notification for order %s: %v", order.ID, err)
		}
	}
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Order", err)
		}
		return nil, apperrors.Internal("Failed to look up order", err)
	}

	if order.BuyerID != userID && order.SellerID != userID {
		return nil, apperrors.Forbidden("You don't have permission to view this order", nil)
	}

	return order, nil
}

func (uc *OrderUseCase) ListPurchases(ctx context.Context, buyerID uuid.UUID, status string, page, limit int) ([]*entity.Order, int64, error) {
	orderStatus, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}

	pagination := utils.NewPaginationParams(page, limit)

	orders, total, err := uc.orderRepo.ListByBuyerID(ctx, buyerID, orderStatus, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list orders", err)
	}

	return orders, total, nil
}

func (uc *OrderUseCase) ListSales(ctx context.Context, sellerID uuid.UUID, status string, page, limit int) ([]*entity.Order, int64, error) {
	orderStatus, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}

	pagination := utils.NewPaginationParams(page, limit)

	orders, total, err := uc.orderRepo.ListBySellerID(ctx, sellerID, orderStatus, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list orders", err)
	}

	return orders, total, nil
}

// Cancel moves an order to cancelled. Allowed only from pending or
// confirmed; cancellation is a status change, order rows are never deleted.
func (uc *OrderUseCase) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Order", err)
		}
		return nil, apperrors.Internal("Failed to look up order", err)
	}

	if order.BuyerID != userID && order.SellerID != userID {
		return nil, apperrors.Forbidden("You don't have permission to cancel this order", nil)
	}

	if !order.Status.Cancellable() {
		return nil, apperrors.InvalidOperation("order cannot be cancelled in its current status")
	}

	now := time.Now()
	order.Status = entity.OrderStatusCancelled
	order.CancelledAt = &now
	if reason != "" {
		order.BuyerNotes = strings.TrimSpace(order.BuyerNotes + "\nCancelled: " + reason)
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("Failed to cancel order", err)
	}

	if uc.restockOnCancel {
		uc.restock(ctx, order)
	}

	return order, nil
}

func (uc *OrderUseCase) restock(ctx context.Context, order *entity.Order) {
	for _, item := range order.Items {
		if item.ProductID == nil {
			continue
		}
		if err := uc.productRepo.Restock(ctx, *item.ProductID); err != nil {
			logger.Warn("Failed to restock product %s after cancelling order %s: %v", *item.ProductID, order.ID, err)
		}
	}
}

type UpdateStatusInput struct {
	Status         entity.OrderStatus
	TrackingNumber string
	SellerNotes    string
}

// UpdateStatus lets the seller advance an order through its lifecycle.
// Cancellation goes through Cancel, never through here.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, sellerID, orderID uuid.UUID, input UpdateStatusInput) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Order", err)
		}
		return nil, apperrors.Internal("Failed to look up order", err)
	}

	if order.SellerID != sellerID {
		return nil, apperrors.Forbidden("Only the seller can update the order status", nil)
	}

	if !order.Status.CanTransitionTo(input.Status) {
		return nil, apperrors.InvalidOperation(
			fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
	}

	now := time.Now()
	order.Status = input.Status

	switch input.Status {
	case entity.OrderStatusShipped:
		order.ShippedAt = &now
	case entity.OrderStatusDelivered:
		order.DeliveredAt = &now
	}

	if input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}
	if input.SellerNotes != "" {
		order.SellerNotes = input.SellerNotes
	}

	if err := uc.orderRepo.Update(ctx, order); err != nil {
		return nil, apperrors.Internal("Failed to update order", err)
	}

	return order, nil
}

func (uc *OrderUseCase) AdminList(ctx context.Context, buyerID, sellerID *uuid.UUID, status string, page, limit int) ([]*entity.Order, int64, error) {
	orderStatus, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.OrderFilter{
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   orderStatus,
	}

	pagination := utils.NewPaginationParams(page, limit)

	orders, total, err := uc.orderRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list orders", err)
	}

	return orders, total, nil
}

func (uc *OrderUseCase) AdminStats(ctx context.Context) (*repository.OrderStats, error) {
	stats, err := uc.orderRepo.Stats(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to compute order stats", err)
	}

	return stats, nil
}

func parseStatusFilter(status string) (entity.OrderStatus, error) {
	if status == "" {
		return "", nil
	}

	orderStatus, err := entity.ToOrderStatus(status)
	if err != nil {
		return "", apperrors.BadRequest("invalid order status filter", err)
	}

	return orderStatus, nil
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
