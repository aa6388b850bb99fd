package implementation

import (
	"context"
	"errors"
	"time"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/mapper"
	"health-portal-be/internal/model"
	"health-portal-be/internal/repository/contract"
	"health-portal-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HealthMapper
}

func NewReminderRepository(db *gorm.DB) contract.ReminderRepository {
	return &ReminderRepositoryImpl{
		db:     db,
		mapper: mapper.NewHealthMapper(),
	}
}

func (r *ReminderRepositoryImpl) Create(ctx context.Context, reminder *entity.Reminder) error {
	if reminder.Id == uuid.Nil {
		reminder.Id = uuid.New()
	}
	m := r.mapper.ReminderToModel(reminder)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*reminder = *r.mapper.ReminderToEntity(m)
	return nil
}

func (r *ReminderRepositoryImpl) Update(ctx context.Context, reminder *entity.Reminder) error {
	m := r.mapper.ReminderToModel(reminder)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*reminder = *r.mapper.ReminderToEntity(m)
	return nil
}

func (r *ReminderRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Reminder{}, "id = ?", id).Error
}

func (r *ReminderRepositoryImpl) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ? AND notified_at IS NULL", id).
		Update("notified_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ReminderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Reminder, error) {
	var m model.Reminder
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReminderToEntity(&m), nil
}

func (r *ReminderRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Reminder, error) {
	var models []*model.Reminder
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Reminder, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ReminderToEntity(m)
	}
	return entities, nil
}
