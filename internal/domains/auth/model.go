package auth

import "medlink-backend/internal/domains/user"

// Session is the payload stored behind both access and refresh token
// cache keys. The refresh entry embeds its own token value so a refresh
// can locate and rewrite its sibling entry.
type Session struct {
	UserID       string    `json:"id"`
	Role         user.Role `json:"role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// PendingSignup is the ephemeral cache entry created by signup and
// consumed by verification. Password and OTP are stored pre-hashed; the
// entry's TTL doubles as the OTP expiry.
type PendingSignup struct {
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         user.Role `json:"role"`
	PasswordHash string    `json:"password"`
	OTPHash      string    `json:"otp_hash"`
}

// SignupResult tells the client when the code expires and when a resend
// becomes allowed. Unix milliseconds.
type SignupResult struct {
	ExpiresAt int64 `json:"expires_at"`
	ResendAt  int64 `json:"resend_at"`
}

// LoginResult is the issued bearer credential set.
type LoginResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Type         string    `json:"type"` // always "Bearer"
	ExpiresAt    int64     `json:"expires_at"`
	Role         user.Role `json:"role"`
}
