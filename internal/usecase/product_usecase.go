package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	apperrors "tradepost/pkg/errors"
	"tradepost/pkg/utils"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
}

func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

type CreateProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	Currency    string
	Condition   string
	SKU         string
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*entity.Product, error) {
	if input.Price.IsNegative() {
		return nil, apperrors.BadRequest("price must not be negative", nil)
	}

	currency := input.Currency
	if currency == "" {
		currency = "EUR"
	}

	product := &entity.Product{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Currency:    currency,
		Condition:   input.Condition,
		SKU:         input.SKU,
		IsActive:    true,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("product with this SKU already exists")
		}
		return nil, apperrors.Internal("Failed to create product", err)
	}

	return product, nil
}

// GetProduct returns a product. Anyone may see an available product; only
// the owner may see an inactive or sold one.
func (uc *ProductUseCase) GetProduct(ctx context.Context, viewerID, productID uuid.UUID) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product", err)
		}
		return nil, apperrors.Internal("Failed to look up product", err)
	}

	if !product.Available() && product.OwnerID != viewerID {
		return nil, apperrors.NotFound("Product", nil)
	}

	return product, nil
}

// ListCatalog lists publicly visible products: active and not sold.
func (uc *ProductUseCase) ListCatalog(ctx context.Context, query, condition string, minPrice, maxPrice *decimal.Decimal, page, limit int) ([]*entity.Product, int64, error) {
	filter := repository.ProductFilter{
		Query:         query,
		Condition:     condition,
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		AvailableOnly: true,
	}

	pagination := utils.NewPaginationParams(page, limit)

	products, total, err := uc.productRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list products", err)
	}

	return products, total, nil
}

// ListMyProducts is the owner-facing listing; it bypasses the availability
// filter so sold and inactive products remain visible to their owner.
func (uc *ProductUseCase) ListMyProducts(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*entity.Product, int64, error) {
	pagination := utils.NewPaginationParams(page, limit)

	products, total, err := uc.productRepo.ListByOwnerID(ctx, ownerID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list products", err)
	}

	return products, total, nil
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, update entity.ProductUpdate) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Product", err)
		}
		return nil, apperrors.Internal("Failed to look up product", err)
	}

	if product.OwnerID != ownerID {
		return nil, apperrors.Forbidden("You don't have permission to update this product", nil)
	}

	if product.Sold {
		return nil, apperrors.Conflict("product already sold")
	}

	if update.Price != nil && update.Price.IsNegative() {
		return nil, apperrors.BadRequest("price must not be negative", nil)
	}

	product.ApplyUpdate(update)

	if err := uc.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("product with this SKU already exists")
		}
		// The guarded update refuses rows that were sold between the read
		// and the write.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Conflict("product already sold")
		}
		return nil, apperrors.Internal("Failed to update product", err)
	}

	return product, nil
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Product", err)
		}
		return apperrors.Internal("Failed to look up product", err)
	}

	if product.OwnerID != ownerID {
		return apperrors.Forbidden("You don't have permission to delete this product", nil)
	}

	if product.Sold {
		return apperrors.Conflict("product already sold")
	}

	if err := uc.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Conflict("product already sold")
		}
		return apperrors.Internal("Failed to delete product", err)
	}

	return nil
}
