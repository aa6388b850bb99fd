package implementation

import (
	"context"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/mapper"
	"health-portal-be/internal/model"
	"health-portal-be/internal/repository/contract"
	"health-portal-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	if message.Id == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		message.Id = id
	}
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error) {
	return r.FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.ChronologicalMessages{Desc: true},
		specification.Pagination{Limit: limit},
	)
}

func (r *MessageRepositoryImpl) FindLatest(ctx context.Context, conversationIds []uuid.UUID) (map[uuid.UUID]*entity.Message, error) {
	latest := make(map[uuid.UUID]*entity.Message, len(conversationIds))
	if len(conversationIds) == 0 {
		return latest, nil
	}

	newest := r.db.Model(&model.Message{}).
		Select("conversation_id, MAX(created_at) AS max_created").
		Where("conversation_id IN ?", conversationIds).
		Group("conversation_id")

	var models []*model.Message
	err := r.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.*").
		Joins("JOIN (?) AS latest ON m.conversation_id = latest.conversation_id AND m.created_at = latest.max_created", newest).
		Order("m.id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	// Ordered by id DESC, so the first row per conversation wins a timestamp tie.
	for _, m := range models {
		if _, seen := latest[m.ConversationId]; !seen {
			latest[m.ConversationId] = r.mapper.MessageToEntity(m)
		}
	}
	return latest, nil
}

func (r *MessageRepositoryImpl) DeleteByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).Delete(&model.Message{}).Error
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
