package email

import (
	"context"
	"fmt"
	"net/smtp"

	"medlink-backend/internal/config"
	"medlink-backend/pkg/logger"
)

type SignupOTPData struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	OTPCode   string `json:"otp_code"`
	ExpiresIn string `json:"expires_in"`
}

type PasswordResetData struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	OTPCode   string `json:"otp_code"`
	ExpiresIn string `json:"expires_in"`
}

type EmailService interface {
	SendSignupOTPEmail(ctx context.Context, data SignupOTPData) error
	SendPasswordResetEmail(ctx context.Context, data PasswordResetData) error
}

type smtpEmailService struct {
	addr        string
	auth        smtp.Auth
	from        string
	frontendURL string
}

func NewSMTPEmailService(cfg config.SMTPConfig, frontendURL string) EmailService {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &smtpEmailService{
		addr:        cfg.Host + ":" + cfg.Port,
		auth:        auth,
		from:        "noreply@" + cfg.EmailDomain,
		frontendURL: frontendURL,
	}
}

func (s *smtpEmailService) SendSignupOTPEmail(_ context.Context, data SignupOTPData) error {
	subject, body := signupOTPTemplate(data)
	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendPasswordResetEmail(_ context.Context, data PasswordResetData) error {
	subject, body := passwordResetTemplate(data, s.frontendURL)
	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body))

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		logger.Error("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.addr,
		})
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
