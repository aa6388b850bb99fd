package implementation

import (
	"context"
	"errors"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/mapper"
	"health-portal-be/internal/model"
	"health-portal-be/internal/repository/contract"
	"health-portal-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.HealthMapper
}

func NewMedicalReportRepository(db *gorm.DB) contract.MedicalReportRepository {
	return &MedicalReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewHealthMapper(),
	}
}

func (r *MedicalReportRepositoryImpl) Create(ctx context.Context, report *entity.MedicalReport) error {
	if report.Id == uuid.Nil {
		report.Id = uuid.New()
	}
	m := r.mapper.ReportToModel(report)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ReportToEntity(m)
	return nil
}

func (r *MedicalReportRepositoryImpl) Update(ctx context.Context, report *entity.MedicalReport) error {
	m := r.mapper.ReportToModel(report)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ReportToEntity(m)
	return nil
}

func (r *MedicalReportRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MedicalReport{}, "id = ?", id).Error
}

func (r *MedicalReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MedicalReport, error) {
	var m model.MedicalReport
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReportToEntity(&m), nil
}

func (r *MedicalReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MedicalReport, error) {
	var models []*model.MedicalReport
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MedicalReport, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ReportToEntity(m)
	}
	return entities, nil
}
