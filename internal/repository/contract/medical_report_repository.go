package contract

import (
	"context"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MedicalReportRepository interface {
	Create(ctx context.Context, report *entity.MedicalReport) error
	Update(ctx context.Context, report *entity.MedicalReport) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MedicalReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MedicalReport, error)
}
