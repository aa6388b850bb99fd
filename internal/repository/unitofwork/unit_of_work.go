package unitofwork

import (
	"context"

	"health-portal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	MedicalReportRepository() contract.MedicalReportRepository
	AppointmentRepository() contract.AppointmentRepository
	ReminderRepository() contract.ReminderRepository
	NotificationRepository() contract.NotificationRepository
}
