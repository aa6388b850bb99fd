package contract

import (
	"context"
	"time"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ReminderRepository interface {
	Create(ctx context.Context, reminder *entity.Reminder) error
	Update(ctx context.Context, reminder *entity.Reminder) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MarkNotified claims a reminder for dispatch. It returns false when another
	// worker already claimed it.
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reminder, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reminder, error)
}
