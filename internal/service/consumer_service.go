package service

import (
	"context"
	"encoding/json"
	"time"

	"health-portal-be/internal/dto"
	"health-portal-be/internal/entity"
	"health-portal-be/internal/metrics"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/pkg/mailer"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/events"
	pktNats "health-portal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const consumerLogModule = "ReminderConsumer"

// IConsumerService drains the due-reminder queue.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	publisher    pktNats.EventPublisher
	logger       logger.ILogger
	now          func() time.Time
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	publisher pktNats.EventPublisher,
	log logger.ILogger,
) IConsumerService {
	if emailService == nil {
		emailService = mailer.NopEmailService{}
	}
	if publisher == nil {
		publisher = pktNats.NopPublisher{}
	}
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		publisher:    publisher,
		logger:       log,
		now:          time.Now,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. A reminder that failed to dispatch is still
// unclaimed, so the scheduler queues it again on its next poll.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.DueReminderMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error(consumerLogModule, "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := cs.dispatch(ctx, payload.ReminderId); err != nil {
		cs.logger.Error(consumerLogModule, "Failed to dispatch reminder", map[string]interface{}{
			"reminder_id": payload.ReminderId.String(),
			"error":       err.Error(),
		})
	}
}

func (cs *consumerService) dispatch(ctx context.Context, reminderId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	reminder, err := uow.ReminderRepository().FindOne(ctx, specification.ByID{ID: reminderId})
	if err != nil {
		return err
	}
	// Deleted or completed since it was queued.
	if reminder == nil || reminder.Status != entity.ReminderPending {
		return nil
	}

	claimed, err := uow.ReminderRepository().MarkNotified(ctx, reminder.Id, cs.now())
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	event := events.ReminderDue(reminder.UserId, reminder.Id.String(), reminder.Message, reminder.ScheduleTime)
	if err := cs.publisher.Publish(ctx, event); err != nil {
		cs.logger.Warn(consumerLogModule, "Failed to publish reminder event", map[string]interface{}{"error": err.Error()})
	}

	if reminder.NotifyEmail != "" {
		if err := cs.emailService.SendReminder(reminder.NotifyEmail, reminder); err != nil {
			cs.logger.Warn(consumerLogModule, "Reminder email failed", map[string]interface{}{"error": err.Error()})
		}
	}

	metrics.RemindersDispatched.Inc()
	return nil
}
