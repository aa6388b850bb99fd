package service

import (
	"context"
	"strings"
	"time"

	"health-portal-be/internal/dto"
	"health-portal-be/internal/entity"
	"health-portal-be/internal/pkg/apperror"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IReminderService interface {
	Create(ctx context.Context, userId string, req *dto.CreateReminderRequest) (*dto.ReminderResponse, error)
	GetPending(ctx context.Context, userId string) ([]*dto.ReminderResponse, error)
	Delete(ctx context.Context, userId string, reminderId string) error
	Complete(ctx context.Context, userId string, reminderId string) (*dto.ReminderResponse, error)
}

type reminderService struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewReminderService(uowFactory unitofwork.RepositoryFactory) IReminderService {
	return &reminderService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *reminderService) Create(ctx context.Context, userId string, req *dto.CreateReminderRequest) (*dto.ReminderResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	if !req.ScheduleTime.After(s.now()) {
		return nil, apperror.Validation("Reminder time must be in the future")
	}

	now := s.now()
	reminder := entity.Reminder{
		Id:           uuid.New(),
		UserId:       userId,
		Message:      req.Message,
		NotifyEmail:  strings.TrimSpace(req.NotifyEmail),
		ScheduleTime: req.ScheduleTime,
		Status:       entity.ReminderPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReminderRepository().Create(ctx, &reminder); err != nil {
		return nil, apperror.Internal("Failed to create reminder", err)
	}
	return toReminderResponse(&reminder), nil
}

func (s *reminderService) GetPending(ctx context.Context, userId string) ([]*dto.ReminderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	reminders, err := uow.ReminderRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: string(entity.ReminderPending)},
		specification.OrderBy{Field: "schedule_time"},
	)
	if err != nil {
		return nil, apperror.Internal("Failed to load reminders", err)
	}

	result := make([]*dto.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		result = append(result, toReminderResponse(r))
	}
	return result, nil
}

func (s *reminderService) Delete(ctx context.Context, userId string, reminderId string) error {
	reminder, err := s.ownedReminder(ctx, userId, reminderId, "delete")
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReminderRepository().Delete(ctx, reminder.Id); err != nil {
		return apperror.Internal("Failed to delete reminder", err)
	}
	return nil
}

func (s *reminderService) Complete(ctx context.Context, userId string, reminderId string) (*dto.ReminderResponse, error) {
	reminder, err := s.ownedReminder(ctx, userId, reminderId, "update")
	if err != nil {
		return nil, err
	}

	reminder.Status = entity.ReminderDone
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReminderRepository().Update(ctx, reminder); err != nil {
		return nil, apperror.Internal("Failed to complete reminder", err)
	}
	return toReminderResponse(reminder), nil
}

func (s *reminderService) ownedReminder(ctx context.Context, userId string, rawId string, action string) (*entity.Reminder, error) {
	id, err := uuid.Parse(rawId)
	if err != nil {
		return nil, apperror.NotFound("Reminder not found")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	reminder, err := uow.ReminderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to load reminder", err)
	}
	if reminder == nil {
		return nil, apperror.NotFound("Reminder not found")
	}
	if reminder.UserId != userId {
		return nil, apperror.Forbidden("Not authorized to " + action + " this reminder")
	}
	return reminder, nil
}

func toReminderResponse(r *entity.Reminder) *dto.ReminderResponse {
	return &dto.ReminderResponse{
		Id:           r.Id,
		Message:      r.Message,
		NotifyEmail:  r.NotifyEmail,
		ScheduleTime: r.ScheduleTime,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}
