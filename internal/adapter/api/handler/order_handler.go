package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradepost/internal/domain/entity"
	"tradepost/internal/usecase"
	"tradepost/pkg/errors"
	"tradepost/pkg/response"
	"tradepost/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type purchaseRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Notes     string `json:"notes" validate:"omitempty,max=500"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type updateOrderStatusRequest struct {
	Status         string `json:"status" validate:"required,oneof=confirmed processing shipped in_transit delivered"`
	TrackingNumber string `json:"tracking_number" validate:"omitempty,max=100"`
	Notes          string `json:"notes" validate:"omitempty,max=500"`
}

func (h *OrderHandler) Purchase(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid product id", err))
	}

	order, err := h.orderUseCase.Purchase(c.Request().Context(), uid, usecase.PurchaseInput{
		ProductID:  productID,
		BuyerNotes: req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid order id", err))
	}

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), uid, orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) ListPurchases(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListPurchases(
		c.Request().Context(),
		uid,
		c.QueryParam("status"),
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) ListSales(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListSales(
		c.Request().Context(),
		uid,
		c.QueryParam("status"),
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid order id", err))
	}

	var req cancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.Cancel(c.Request().Context(), uid, orderID, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid order id", err))
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	status, err := entity.ToOrderStatus(req.Status)
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid order status", err))
	}

	order, err := h.orderUseCase.UpdateStatus(c.Request().Context(), uid, orderID, usecase.UpdateStatusInput{
		Status:         status,
		TrackingNumber: req.TrackingNumber,
		SellerNotes:    req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) AdminListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	var buyerID, sellerID *uuid.UUID
	if raw := c.QueryParam("buyer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid buyer_id", err))
		}
		buyerID = &id
	}
	if raw := c.QueryParam("seller_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, errors.BadRequest("Invalid seller_id", err))
		}
		sellerID = &id
	}

	orders, total, err := h.orderUseCase.AdminList(
		c.Request().Context(),
		buyerID,
		sellerID,
		c.QueryParam("status"),
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) AdminOrderStats(c echo.Context) error {
	stats, err := h.orderUseCase.AdminStats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}
