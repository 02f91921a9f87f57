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

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

type createNotificationRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	Type     string `json:"type" validate:"omitempty,oneof=info order alert"`
	Title    string `json:"title" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=1000"`
	Priority int    `json:"priority" validate:"required,min=1,max=4"`
}

type updateNotificationRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Message  *string `json:"message" validate:"omitempty,max=1000"`
	Priority *int    `json:"priority" validate:"omitempty,min=1,max=4"`
}

func (h *NotificationHandler) CreateNotification(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	var req createNotificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid user id", err))
	}

	notification, err := h.notificationUseCase.Create(c.Request().Context(), uid, usecase.CreateNotificationInput{
		UserID:   userID,
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Priority: req.Priority,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, notification)
}

func (h *NotificationHandler) GetNotification(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification id", err))
	}

	notification, err := h.notificationUseCase.Get(c.Request().Context(), uid, notificationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, notification)
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)
	pagination := utils.GetPaginationParams(c)

	unreadOnly := c.QueryParam("unread") == "true"

	notifications, total, err := h.notificationUseCase.List(
		c.Request().Context(),
		uid,
		c.QueryParam("type"),
		unreadOnly,
		pagination.Page,
		pagination.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, notifications, total, pagination.Page, pagination.PageSize)
}

func (h *NotificationHandler) UpdateNotification(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification id", err))
	}

	var req updateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	notification, err := h.notificationUseCase.Update(c.Request().Context(), uid, notificationID, entity.NotificationUpdate{
		Title:    req.Title,
		Message:  req.Message,
		Priority: req.Priority,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, notification)
}

func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification id", err))
	}

	if err := h.notificationUseCase.Delete(c.Request().Context(), uid, notificationID); err != nil {
		return response.Error(c, err)
	}

	return response.NoContent(c)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid notification id", err))
	}

	notification, err := h.notificationUseCase.MarkRead(c.Request().Context(), uid, notificationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, notification)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	count, err := h.notificationUseCase.MarkAllRead(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{
		"marked": count,
	})
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	uid := c.Get("uid").(uuid.UUID)

	count, err := h.notificationUseCase.UnreadCount(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{
		"unread": count,
	})
}
