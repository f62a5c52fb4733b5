package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"medlink-backend/internal/infrastructure/email"
)

// ============================================
// Signup Verification Handler
// ============================================

type SignupOTPHandler struct {
	emailService email.EmailService
}

func NewSignupOTPHandler(emailService email.EmailService) *SignupOTPHandler {
	return &SignupOTPHandler{emailService: emailService}
}

func (h *SignupOTPHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.SignupOTPData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal signup otp payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendSignupOTPEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send verification email")
		return fmt.Errorf("send verification email: %w", err)
	}

	log.Info().Str("email", payload.Email).Msg("Verification email sent")
	return nil
}

// ============================================
// Password Reset Handler
// ============================================

type PasswordResetHandler struct {
	emailService email.EmailService
}

func NewPasswordResetHandler(emailService email.EmailService) *PasswordResetHandler {
	return &PasswordResetHandler{emailService: emailService}
}

func (h *PasswordResetHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.PasswordResetData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal password reset payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.emailService.SendPasswordResetEmail(ctx, payload); err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to send reset email")
		return fmt.Errorf("send reset email: %w", err)
	}

	log.Info().Str("email", payload.Email).Msg("Password reset email sent")
	return nil
}
