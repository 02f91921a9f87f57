package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradepost/internal/domain/entity"
)

// ProductFilter narrows catalog queries. AvailableOnly restricts the result
// to active, unsold products; owner-facing listings leave it false.
type ProductFilter struct {
	Query         string
	Condition     string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	AvailableOnly bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	ListByOwnerID(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Product, int64, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Restock flips sold back to false. Only used when the cancellation
	// restock policy is enabled.
	Restock(ctx context.Context, id uuid.UUID) error
}
