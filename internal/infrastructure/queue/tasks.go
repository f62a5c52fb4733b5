package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"medlink-backend/internal/infrastructure/email"
)

const (
	TypeSignupOTPEmail     = "email:signup_verification"
	TypePasswordResetEmail = "email:password_reset"
)

func NewSignupOTPEmailTask(data email.SignupOTPData) (*asynq.Task, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal signup otp payload: %w", err)
	}
	return asynq.NewTask(TypeSignupOTPEmail, payload, asynq.MaxRetry(3)), nil
}

func NewPasswordResetEmailTask(data email.PasswordResetData) (*asynq.Task, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal password reset payload: %w", err)
	}
	return asynq.NewTask(TypePasswordResetEmail, payload, asynq.MaxRetry(3)), nil
}
