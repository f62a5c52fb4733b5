package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"medlink-backend/internal/config"
	"medlink-backend/internal/infrastructure/email"
	"medlink-backend/internal/infrastructure/email/job"
	"medlink-backend/internal/infrastructure/queue"
	"medlink-backend/pkg/logger"
)

// Run starts the email worker and blocks until SIGINT/SIGTERM.
func Run(cfg *config.Config) {
	// Step 1: The only worker dependency is the SMTP sender
	emailService := email.NewSMTPEmailService(cfg.SMTP, cfg.App.FrontendURL)

	// Step 2: Task handlers
	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeSignupOTPEmail, job.NewSignupOTPHandler(emailService))
	mux.Handle(queue.TypePasswordResetEmail, job.NewPasswordResetHandler(emailService))

	// Step 3: Asynq server over the same Redis the API enqueues into
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 10,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", map[string]interface{}{
					"type":  task.Type(),
					"error": err.Error(),
				})
			}),
		},
	)

	go func() {
		logger.Info("Worker starting", map[string]interface{}{
			"redis":       cfg.Redis.Host,
			"environment": cfg.App.Environment,
		})
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Failed to start worker: %v", err)
		}
	}()

	// Step 4: Graceful shutdown; in-flight tasks get re-queued by asynq
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker", nil)
	srv.Shutdown()
	logger.Info("Worker exited", nil)
}
