package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"health-portal-be/internal/model"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/events"
	pktNats "health-portal-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const notificationLogModule = "NotificationService"

// NotificationDelivery pushes notifications in real time. Implemented by the
// websocket hub.
type NotificationDelivery interface {
	Send(userID string, notification model.Notification)
	Broadcast(notification model.Notification)
}

type notificationTemplate struct {
	Title      string
	Message    string // {key} placeholders are filled from the event payload
	EntityType string
	EntityKey  string
}

var notificationTemplates = map[string]notificationTemplate{
	events.TypeAppointmentBooked: {
		Title:      "Appointment booked",
		Message:    "Your {department} appointment with {doctor} is booked for {datetime}.",
		EntityType: "appointment",
		EntityKey:  events.KeyAppointmentId,
	},
	events.TypeAppointmentCancelled: {
		Title:      "Appointment cancelled",
		Message:    "Your {department} appointment on {datetime} was cancelled.",
		EntityType: "appointment",
		EntityKey:  events.KeyAppointmentId,
	},
	events.TypeReminderDue: {
		Title:      "Reminder",
		Message:    "{message}",
		EntityType: "reminder",
		EntityKey:  events.KeyReminderId,
	},
	events.TypeReportUploaded: {
		Title:      "Report summarized",
		Message:    "Your report \"{report_name}\" has been uploaded and summarized.",
		EntityType: "report",
		EntityKey:  events.KeyReportId,
	},
}

type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
	now        func() time.Time
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		uowFactory: uowFactory,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
		now:        time.Now,
	}
}

// Start attaches the service to the event bus. Without a subscriber, events
// reach HandleEvent through a LocalEventPublisher instead.
func (s *NotificationService) Start() error {
	if s.subscriber == nil {
		return nil
	}
	if err := s.subscriber.Subscribe(pktNats.SubjectPrefix+">", "notification-service", s.HandleEvent); err != nil {
		s.logger.Error(notificationLogModule, "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info(notificationLogModule, "Listening for events", nil)
	return nil
}

// HandleEvent turns a domain event into an inbox entry and a live push.
// Events without a template are ignored.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), pktNats.SubjectPrefix)

	tmpl, ok := notificationTemplates[typeCode]
	if !ok {
		s.logger.Debug(notificationLogModule, "No notification for event", map[string]interface{}{"type": typeCode})
		return nil
	}

	userID := events.StringField(event, events.KeyUserId)
	if userID == "" {
		s.logger.Warn(notificationLogModule, "Event has no user_id", map[string]interface{}{"type": typeCode})
		return nil
	}

	notification := s.buildNotification(userID, typeCode, tmpl, event)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, &notification); err != nil {
		s.logger.Error(notificationLogModule, fmt.Sprintf("Error saving notification for user %s", userID), map[string]interface{}{"error": err.Error()})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notification)
	}
	return nil
}

func (s *NotificationService) buildNotification(userID, typeCode string, tmpl notificationTemplate, event events.Event) model.Notification {
	payload := event.Payload()

	msg := tmpl.Message
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}

	var entityID *uuid.UUID
	if raw, ok := payload[tmpl.EntityKey].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			entityID = &id
		}
	}

	meta := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		meta[k] = v
	}
	if entityID != nil {
		meta["action_url"] = fmt.Sprintf("/%ss/%s", tmpl.EntityType, entityID.String())
	}
	metaJSON, _ := json.Marshal(meta)

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		TypeCode:   typeCode,
		Title:      tmpl.Title,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: tmpl.EntityType,
		EntityID:   entityID,
		CreatedAt:  s.now(),
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID string, limit, offset int) ([]model.Notification, int64, error) {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().FindByUserId(ctx, userID, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().CountUnread(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID string, id uuid.UUID) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAsRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAllAsRead(ctx, userID)
}

// LocalEventPublisher hands events straight to an in-process handler. Used in
// place of NATS when the bus is unreachable.
type LocalEventPublisher struct {
	handler pktNats.EventHandler
}

func NewLocalEventPublisher(handler pktNats.EventHandler) *LocalEventPublisher {
	return &LocalEventPublisher{handler: handler}
}

func (p *LocalEventPublisher) Publish(ctx context.Context, event events.Event) error {
	return p.handler(context.WithoutCancel(ctx), event)
}
