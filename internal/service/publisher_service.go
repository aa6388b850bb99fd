package service

import (
	"context"
	"encoding/json"

	"health-portal-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const DueReminderTopic = "reminders.due"

// IPublisherService queues background jobs on the in-process bus.
type IPublisherService interface {
	PublishDueReminder(ctx context.Context, reminderId uuid.UUID) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (p *publisherService) PublishDueReminder(ctx context.Context, reminderId uuid.UUID) error {
	payload, err := json.Marshal(dto.DueReminderMessage{ReminderId: reminderId})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}
