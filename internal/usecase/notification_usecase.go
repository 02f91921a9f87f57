package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	apperrors "tradepost/pkg/errors"
	"tradepost/pkg/utils"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{notificationRepo: notificationRepo}
}

type CreateNotificationInput struct {
	UserID   uuid.UUID
	Type     string
	Title    string
	Message  string
	Priority int
}

func (uc *NotificationUseCase) Create(ctx context.Context, requesterID uuid.UUID, input CreateNotificationInput) (*entity.Notification, error) {
	if input.UserID != requesterID {
		return nil, apperrors.Forbidden("You can only create notifications for yourself", nil)
	}

	if input.Priority < entity.NotificationPriorityMin || input.Priority > entity.NotificationPriorityMax {
		return nil, apperrors.BadRequest("priority must be between 1 and 4", nil)
	}

	notificationType := input.Type
	if notificationType == "" {
		notificationType = entity.NotificationTypeInfo
	}

	notification := &entity.Notification{
		UserID:   input.UserID,
		Type:     notificationType,
		Title:    input.Title,
		Message:  input.Message,
		Priority: input.Priority,
	}

	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		return nil, apperrors.Internal("Failed to create notification", err)
	}

	return notification, nil
}

func (uc *NotificationUseCase) Get(ctx context.Context, userID, notificationID uuid.UUID) (*entity.Notification, error) {
	return uc.getOwned(ctx, userID, notificationID)
}

func (uc *NotificationUseCase) List(ctx context.Context, userID uuid.UUID, notificationType string, unreadOnly bool, page, limit int) ([]*entity.Notification, int64, error) {
	filter := repository.NotificationFilter{
		Type:       notificationType,
		UnreadOnly: unreadOnly,
	}

	pagination := utils.NewPaginationParams(page, limit)

	notifications, total, err := uc.notificationRepo.ListByUserID(ctx, userID, filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list notifications", err)
	}

	return notifications, total, nil
}

func (uc *NotificationUseCase) Update(ctx context.Context, userID, notificationID uuid.UUID, update entity.NotificationUpdate) (*entity.Notification, error) {
	notification, err := uc.getOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}

	if update.Priority != nil &&
		(*update.Priority < entity.NotificationPriorityMin || *update.Priority > entity.NotificationPriorityMax) {
		return nil, apperrors.BadRequest("priority must be between 1 and 4", nil)
	}

	notification.ApplyUpdate(update)

	if err := uc.notificationRepo.Update(ctx, notification); err != nil {
		return nil, apperrors.Internal("Failed to update notification", err)
	}

	return notification, nil
}

func (uc *NotificationUseCase) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	if _, err := uc.getOwned(ctx, userID, notificationID); err != nil {
		return err
	}

	if err := uc.notificationRepo.Delete(ctx, notificationID); err != nil {
		return apperrors.Internal("Failed to delete notification", err)
	}

	return nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*entity.Notification, error) {
	notification, err := uc.getOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}

	notification.MarkRead()

	if err := uc.notificationRepo.Update(ctx, notification); err != nil {
		return nil, apperrors.Internal("Failed to mark notification read", err)
	}

	return notification, nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := uc.notificationRepo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("Failed to mark notifications read", err)
	}

	return count, nil
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := uc.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal("Failed to count unread notifications", err)
	}

	return count, nil
}

func (uc *NotificationUseCase) getOwned(ctx context.Context, userID, notificationID uuid.UUID) (*entity.Notification, error) {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Notification", err)
		}
		return nil, apperrors.Internal("Failed to look up notification", err)
	}

	if notification.UserID != userID {
		return nil, apperrors.Forbidden("You don't have permission to access this notification", nil)
	}

	return notification, nil
}
