package contract

import (
	"context"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// FindRecent returns at most limit messages of a conversation, newest first.
	FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error)
	// FindLatest returns the newest message per conversation, keyed by conversation id.
	FindLatest(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID]*entity.Message, error)
	DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
