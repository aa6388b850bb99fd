package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-portal-be/internal/bootstrap"
	"health-portal-be/internal/config"
	"health-portal-be/internal/pkg/serverutils"
	"health-portal-be/internal/server"
	"health-portal-be/internal/tracer"
	"health-portal-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.App)
	defer shutdownTracer(context.Background())

	if cfg.Auth.JwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	serverutils.SetJwtSecret(cfg.Auth.JwtSecret)
	serverutils.SetJwtIssuer(cfg.Auth.JwtIssuer)

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)

	if err := container.NotificationService.Start(); err != nil {
		log.Printf("Background: notification subscriber not started: %v", err)
	}
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	go container.ReminderScheduler.Run(ctx)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Let queued message writes land before the database goes away.
	flushed := make(chan struct{})
	go func() {
		container.Memory.Flush()
		close(flushed)
	}()
	select {
	case <-flushed:
	case <-time.After(cfg.Chat.PersistTimeout):
		log.Println("Timed out waiting for pending message writes")
	}
}
