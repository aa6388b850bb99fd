package bootstrap

import (
	"context"
	"log"

	"health-portal-be/internal/config"
	"health-portal-be/internal/controller"
	"health-portal-be/internal/handler"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/pkg/mailer"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/internal/service"
	"health-portal-be/internal/websocket"
	"health-portal-be/pkg/assistant/assembler"
	"health-portal-be/pkg/assistant/response"
	"health-portal-be/pkg/llm/factory"
	pktNats "health-portal-be/pkg/nats"
	"health-portal-be/pkg/stm"
	"health-portal-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController        controller.IChatController
	ReportController      controller.IReportController
	AppointmentController controller.IAppointmentController
	ReminderController    controller.IReminderController

	// Background services, started by main
	ConsumerService     service.IConsumerService
	ReminderScheduler   service.IReminderScheduler
	NotificationService *service.NotificationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Memory *stm.Cache
	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	var emailService mailer.IEmailService = mailer.NopEmailService{}
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			sysLogger,
		)
	} else {
		log.Printf("[WARN] SMTP_HOST not set, emails are disabled")
	}

	files, err := storage.NewLocalStorage(cfg.App.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to prepare upload dir: %v", err)
	}

	// 2. In-process job bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. LLM
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
		cfg.Ai.Timeout,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	generator := response.NewGenerator(llmProvider, cfg.Ai.Temperature, cfg.Ai.MaxTokens)

	// 4. Infrastructure
	// Redis fans websocket pushes out across instances.
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Running single instance", err)
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	wsLogger := logger.NewIsolatedLogger(cfg.App.NotificationLog)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// NATS carries domain events to the notification service. Without it the
	// events are handled in-process.
	var natsSub *pktNats.Subscriber
	var eventPublisher pktNats.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v. Delivering events in-process", err)
	} else {
		natsSub, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v. Delivering events in-process", err)
			natsPub.Close()
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsSub.Close, natsPub.Close)
		}
	}

	c.NotificationService = service.NewNotificationService(uowFactory, natsSub, c.WebSocketHub, sysLogger)
	if eventPublisher == nil {
		eventPublisher = service.NewLocalEventPublisher(c.NotificationService.HandleEvent)
	}

	// 5. Short-term memory and context assembly
	c.Memory = stm.NewCache(
		stm.NewMessageStore(uowFactory),
		sysLogger,
		stm.WithMaxTurns(cfg.Chat.StmMaxTurns),
		stm.WithHydrateLimit(cfg.Chat.StmHydrateLimit),
		stm.WithPersistTimeout(cfg.Chat.PersistTimeout),
	)
	contextAssembler := assembler.NewAssembler(
		c.Memory,
		assembler.NewReportSummaryProvider(uowFactory),
		assembler.WithWindowSize(cfg.Chat.ContextWindow),
		assembler.WithSummaryLimit(cfg.Chat.SummaryLimit),
	)

	// 6. Services
	chatService := service.NewChatService(uowFactory, c.Memory, contextAssembler, generator, eventPublisher, sysLogger, cfg.Chat.SerializeTurns)
	reportService := service.NewReportService(uowFactory, files, generator, eventPublisher, sysLogger)
	appointmentService := service.NewAppointmentService(uowFactory, emailService, eventPublisher, sysLogger)
	reminderService := service.NewReminderService(uowFactory)

	publisherService := service.NewPublisherService(service.DueReminderTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		service.DueReminderTopic,
		uowFactory,
		emailService,
		eventPublisher,
		sysLogger,
	)
	c.ReminderScheduler = service.NewReminderScheduler(
		uowFactory,
		publisherService,
		cfg.Reminder.PollInterval,
		cfg.Reminder.BatchSize,
		sysLogger,
	)

	// 7. Controllers
	c.ChatController = controller.NewChatController(chatService)
	c.ReportController = controller.NewReportController(reportService)
	c.AppointmentController = controller.NewAppointmentController(appointmentService)
	c.ReminderController = controller.NewReminderController(reminderService)
	c.NotificationHandler = handler.NewNotificationHandler(c.NotificationService, c.WebSocketHub, sysLogger)

	return c
}

// Close releases broker connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
