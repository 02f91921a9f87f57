package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tradepost/internal/domain/entity"
	"tradepost/internal/usecase"
	"tradepost/pkg/errors"
	"tradepost/pkg/response"
	"tradepost/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createProductRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Currency    string          `json:"currency" validate:"omitempty,len=3"`
	Condition   string          `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	SKU         string          `json:"sku" validate:"omitempty,max=64"`
}

type updateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Condition   *string          `json:"condition" validate:"omitempty,oneof=new like_new good fair poor"`
	IsActive    *bool            `json:"is_active"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), uid, usecase.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Condition:   req.Condition,
		SKU:         req.SKU,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	// uid is zero for anonymous viewers, who only see available products.
	uid, _ := c.Get("uid").(uuid.UUID)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid product id", err))
	}

	product, err := h.productUseCase.GetProduct(c.Request().Context(), uid, productID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	var minPrice, maxPrice *decimal.Decimal
	if raw := c.QueryParam("min_price"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid min_price", err))
		}
		minPrice = &value
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid max_price", err))
		}
		maxPrice = &value
	}

	products, total, err := h.productUseCase.ListCatalog(
		c.Request().Context(),
		c.QueryParam("q"),
		c.QueryParam("condition"),
		minPrice,
		maxPrice,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)
	pagination := utils.GetPaginationParams(c)

	products, total, err := h.productUseCase.ListMyProducts(c.Request().Context(), uid, pagination.Page, pagination.PageSize)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, pagination.Page, pagination.PageSize)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid product id", err))
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), uid, productID, entity.ProductUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid product id", err))
	}

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), uid, productID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}
