package repository

import (
	"context"

	"github.com/google/uuid"

	"tradepost/internal/domain/entity"
)

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	BuyerID  *uuid.UUID
	SellerID *uuid.UUID
	Status   entity.OrderStatus
}

// OrderStats summarizes the order table for the admin dashboard.
type OrderStats struct {
	TotalOrders        int64            `json:"total_orders"`
	TotalAmount        string           `json:"total_amount"`
	AverageAmount      string           `json:"average_amount"`
	StatusDistribution map[string]int64 `json:"status_distribution"`
}

type OrderRepository interface {
	// CreatePurchase atomically marks the product sold and inserts the
	// order with its items in a single transaction. The mark-sold update is
	// conditional on sold=false; if it matches no row the whole transaction
	// fails with ErrProductSold and nothing is written.
	CreatePurchase(ctx context.Context, order *entity.Order, productID uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	ListByBuyerID(ctx context.Context, buyerID uuid.UUID, status entity.OrderStatus, limit, offset int) ([]*entity.Order, int64, error)
	ListBySellerID(ctx context.Context, sellerID uuid.UUID, status entity.OrderStatus, limit, offset int) ([]*entity.Order, int64, error)
	List(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, int64, error)
	Update(ctx context.Context, order *entity.Order) error

	Stats(ctx context.Context) (*OrderStats, error)
}
