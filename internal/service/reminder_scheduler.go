package service

import (
	"context"
	"time"

	"health-portal-be/internal/entity"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"
)

const schedulerLogModule = "ReminderScheduler"

// IReminderScheduler polls for reminders whose time has come and queues them
// for the consumer.
type IReminderScheduler interface {
	Run(ctx context.Context)
	Tick(ctx context.Context) (int, error)
}

type reminderScheduler struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	interval   time.Duration
	batchSize  int
	logger     logger.ILogger
	now        func() time.Time
}

func NewReminderScheduler(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	interval time.Duration,
	batchSize int,
	log logger.ILogger,
) IReminderScheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &reminderScheduler{
		uowFactory: uowFactory,
		publisher:  publisher,
		interval:   interval,
		batchSize:  batchSize,
		logger:     log,
		now:        time.Now,
	}
}

func (s *reminderScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Tick(ctx); err != nil {
			s.logger.Error(schedulerLogModule, "Reminder poll failed", map[string]interface{}{"error": err.Error()})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Tick queues one batch of due, unclaimed reminders and returns how many.
func (s *reminderScheduler) Tick(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	due, err := uow.ReminderRepository().FindAll(ctx,
		specification.ByStatus{Status: string(entity.ReminderPending)},
		specification.DueBefore{Time: s.now()},
		specification.NotYetNotified{},
		specification.OrderBy{Field: "schedule_time"},
		specification.Pagination{Limit: s.batchSize},
	)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, reminder := range due {
		if err := s.publisher.PublishDueReminder(ctx, reminder.Id); err != nil {
			s.logger.Warn(schedulerLogModule, "Failed to queue reminder", map[string]interface{}{
				"reminder_id": reminder.Id.String(),
				"error":       err.Error(),
			})
			continue
		}
		queued++
	}
	return queued, nil
}
