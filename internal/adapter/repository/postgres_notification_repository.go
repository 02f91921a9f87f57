package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradepost/internal/domain/entity"
	domainrepo "tradepost/internal/domain/repository"
)

type postgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepository(pool *pgxpool.Pool) domainrepo.NotificationRepository {
	return &postgresNotificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, type, title, message, priority, is_read, read_at, created_at`

func (r *postgresNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, message, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, notification.UserID, notification.Type, notification.Title,
		notification.Message, notification.Priority).
		Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", mapPgError(err))
	}

	return nil
}

func (r *postgresNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var n entity.Notification

	err := r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id).
		Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Priority,
			&n.IsRead, &n.ReadAt, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get notification by id: %w", mapPgError(err))
	}

	return &n, nil
}

func (r *postgresNotificationRepository) ListByUserID(ctx context.Context, userID uuid.UUID, filter domainrepo.NotificationFilter, limit, offset int) ([]*entity.Notification, int64, error) {
	where := ` WHERE user_id = $1`
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(` AND type = $%d`, len(args))
	}

	if filter.UnreadOnly {
		where += ` AND NOT is_read`
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM notifications`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + notificationColumns + ` FROM notifications` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Priority, &n.IsRead, &n.ReadAt, &n.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, total, rows.Err()
}

func (r *postgresNotificationRepository) Update(ctx context.Context, notification *entity.Notification) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET title = $2, message = $3, priority = $4, is_read = $5, read_at = $6
		WHERE id = $1
	`, notification.ID, notification.Title, notification.Message,
		notification.Priority, notification.IsRead, notification.ReadAt)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update notification: %w", domainrepo.ErrNotFound)
	}

	return nil
}

func (r *postgresNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete notification: %w", domainrepo.ErrNotFound)
	}

	return nil
}

func (r *postgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = now()
		WHERE user_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}

	return count, nil
}
