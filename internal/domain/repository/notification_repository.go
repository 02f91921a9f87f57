package repository

import (
	"context"

	"github.com/google/uuid"

	"tradepost/internal/domain/entity"
)

type NotificationFilter struct {
	Type       string
	UnreadOnly bool
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, filter NotificationFilter, limit, offset int) ([]*entity.Notification, int64, error)
	Update(ctx context.Context, notification *entity.Notification) error
	Delete(ctx context.Context, id uuid.UUID) error

	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}
