package service

import (
	"context"
	"strings"
	"time"

	"health-portal-be/internal/dto"
	"health-portal-be/internal/entity"
	"health-portal-be/internal/metrics"
	"health-portal-be/internal/pkg/apperror"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/pkg/mailer"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/events"
	pktNats "health-portal-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	appointmentLogModule = "AppointmentService"
	anyDoctor            = "Any"
)

type IAppointmentService interface {
	Book(ctx context.Context, userId string, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAll(ctx context.Context, userId string) ([]*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, userId string, appointmentId string) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, userId string, appointmentId string) error
}

type appointmentService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	publisher    pktNats.EventPublisher
	logger       logger.ILogger
	now          func() time.Time
}

func NewAppointmentService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	publisher pktNats.EventPublisher,
	log logger.ILogger,
) IAppointmentService {
	if emailService == nil {
		emailService = mailer.NopEmailService{}
	}
	if publisher == nil {
		publisher = pktNats.NopPublisher{}
	}
	return &appointmentService{
		uowFactory:   uowFactory,
		emailService: emailService,
		publisher:    publisher,
		logger:       log,
		now:          time.Now,
	}
}

func (s *appointmentService) Book(ctx context.Context, userId string, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}

	// Same-day bookings are allowed; anything before today is not.
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.Datetime.Before(today) {
		return nil, apperror.Validation("Appointment date cannot be in the past")
	}

	doctor := strings.TrimSpace(req.PreferredDoctor)
	if doctor == "" {
		doctor = anyDoctor
	}

	appointment := entity.Appointment{
		Id:              uuid.New(),
		UserId:          userId,
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.TrimSpace(req.Email),
		PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
		Department:      strings.TrimSpace(req.Department),
		PreferredDoctor: doctor,
		Datetime:        req.Datetime,
		Status:          entity.AppointmentScheduled,
		AdditionalNotes: req.AdditionalNotes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AppointmentRepository().Create(ctx, &appointment); err != nil {
		return nil, apperror.Internal("Failed to book appointment", err)
	}
	metrics.AppointmentsBooked.Inc()

	if err := s.emailService.SendAppointmentConfirmation(&appointment); err != nil {
		s.logger.Warn(appointmentLogModule, "Confirmation email failed", map[string]interface{}{
			"appointment_id": appointment.Id.String(),
			"error":          err.Error(),
		})
	}
	s.publish(ctx, events.AppointmentBooked(userId, appointment.Id.String(), appointment.Department, appointment.PreferredDoctor, appointment.Datetime))

	return toAppointmentResponse(&appointment), nil
}

func (s *appointmentService) GetAll(ctx context.Context, userId string) ([]*dto.AppointmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	appointments, err := uow.AppointmentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ExcludeStatus{Status: string(entity.AppointmentCancelled)},
		specification.OrderBy{Field: "datetime"},
	)
	if err != nil {
		return nil, apperror.Internal("Failed to load appointments", err)
	}

	result := make([]*dto.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		result = append(result, toAppointmentResponse(a))
	}
	return result, nil
}

func (s *appointmentService) Cancel(ctx context.Context, userId string, appointmentId string) (*dto.AppointmentResponse, error) {
	appointment, err := s.ownedAppointment(ctx, userId, appointmentId, "cancel")
	if err != nil {
		return nil, err
	}

	appointment.Status = entity.AppointmentCancelled
	appointment.UpdatedAt = s.now()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AppointmentRepository().Update(ctx, appointment); err != nil {
		return nil, apperror.Internal("Failed to cancel appointment", err)
	}

	if err := s.emailService.SendAppointmentCancellation(appointment); err != nil {
		s.logger.Warn(appointmentLogModule, "Cancellation email failed", map[string]interface{}{
			"appointment_id": appointment.Id.String(),
			"error":          err.Error(),
		})
	}
	s.publish(ctx, events.AppointmentCancelled(userId, appointment.Id.String(), appointment.Department, appointment.Datetime))

	return toAppointmentResponse(appointment), nil
}

func (s *appointmentService) Delete(ctx context.Context, userId string, appointmentId string) error {
	appointment, err := s.ownedAppointment(ctx, userId, appointmentId, "delete")
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AppointmentRepository().Delete(ctx, appointment.Id); err != nil {
		return apperror.Internal("Failed to delete appointment", err)
	}

	s.logger.Info(appointmentLogModule, "Appointment deleted", map[string]interface{}{
		"appointment_id": appointment.Id.String(),
		"user_id":        userId,
	})
	return nil
}

func (s *appointmentService) ownedAppointment(ctx context.Context, userId string, rawId string, action string) (*entity.Appointment, error) {
	id, err := uuid.Parse(rawId)
	if err != nil {
		return nil, apperror.NotFound("Appointment not found")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	appointment, err := uow.AppointmentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Internal("Failed to load appointment", err)
	}
	if appointment == nil {
		return nil, apperror.NotFound("Appointment not found")
	}
	if appointment.UserId != userId {
		return nil, apperror.Forbidden("Not authorized to " + action + " this appointment")
	}
	return appointment, nil
}

func (s *appointmentService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(appointmentLogModule, "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func toAppointmentResponse(a *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		Id:              a.Id,
		FullName:        a.FullName,
		Email:           a.Email,
		PhoneNumber:     a.PhoneNumber,
		Department:      a.Department,
		PreferredDoctor: a.PreferredDoctor,
		Doctor:          a.PreferredDoctor,
		Date:            a.Datetime,
		Time:            a.Datetime.Format("3:04 PM"),
		Datetime:        a.Datetime,
		Status:          string(a.Status),
		AdditionalNotes: a.AdditionalNotes,
		CreatedAt:       a.CreatedAt,
	}
}
