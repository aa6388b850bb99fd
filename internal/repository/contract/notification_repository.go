package contract

import (
	"context"

	"health-portal-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByUserId(ctx context.Context, userId string, limit, offset int) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, userId string) (int64, error)
	MarkAsRead(ctx context.Context, userId string, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId string) error
}
