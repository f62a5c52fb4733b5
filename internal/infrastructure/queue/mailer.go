package queue

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"medlink-backend/internal/infrastructure/email"
	"medlink-backend/pkg/logger"
)

// Mailer enqueues account emails for the worker process. Delivery is
// best effort: an enqueue failure is logged and swallowed so the auth
// operation that triggered it still succeeds.
type Mailer struct {
	client *asynq.Client
}

func NewMailer(client *asynq.Client) *Mailer {
	return &Mailer{client: client}
}

func (m *Mailer) SendSignupOTP(ctx context.Context, to, fullName, otp string, expiry time.Duration) {
	task, err := NewSignupOTPEmailTask(email.SignupOTPData{
		Email:     to,
		FullName:  fullName,
		OTPCode:   otp,
		ExpiresIn: expiry.String(),
	})
	if err != nil {
		logger.Error("Failed to build signup otp task", map[string]interface{}{"error": err.Error()})
		return
	}
	m.enqueue(ctx, task)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, role, token, otp string, expiry time.Duration) {
	task, err := NewPasswordResetEmailTask(email.PasswordResetData{
		Email:     to,
		Role:      role,
		Token:     token,
		OTPCode:   otp,
		ExpiresIn: expiry.String(),
	})
	if err != nil {
		logger.Error("Failed to build password reset task", map[string]interface{}{"error": err.Error()})
		return
	}
	m.enqueue(ctx, task)
}

func (m *Mailer) enqueue(ctx context.Context, task *asynq.Task) {
	info, err := m.client.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error("Failed to enqueue email task", map[string]interface{}{
			"type":  task.Type(),
			"error": err.Error(),
		})
		return
	}
	logger.Debug("Email task enqueued", map[string]interface{}{
		"type": task.Type(),
		"id":   info.ID,
	})
}
