package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeInfo  = "info"
	NotificationTypeOrder = "order"
	NotificationTypeAlert = "alert"

	NotificationPriorityMin = 1
	NotificationPriorityMax = 4
)

type Notification struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Priority int       `json:"priority"`

	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// MarkRead flips the notification to read and stamps the time.
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
}

// NotificationUpdate is the allow-listed set of mutable notification fields.
type NotificationUpdate struct {
	Title    *string
	Message  *string
	Priority *int
}

func (n *Notification) ApplyUpdate(update NotificationUpdate) {
	if update.Title != nil {
		n.Title = *update.Title
	}
	if update.Message != nil {
		n.Message = *update.Message
	}
	if update.Priority != nil {
		n.Priority = *update.Priority
	}
}
