package auth

import (
	"fmt"

	"medlink-backend/internal/domains/user"
)

// Cache key derivation for every credential slot. Each purpose carries a
// fixed tag so two purposes can never collide, even for the same
// (email, role) identity.
//
// Assumption (not a cryptographic guarantee): emails, roles and tokens
// are opaque strings that never contain a colliding tag themselves.

// SignupOTPKey addresses the pending-signup entry for an identity.
func SignupOTPKey(email string, role user.Role) string {
	return fmt.Sprintf("%s-%s-reg-otp", email, role)
}

// AccessTokenKey addresses the session payload behind an access token.
func AccessTokenKey(token string) string {
	return "access-" + token
}

// RefreshTokenKey addresses the session payload behind a refresh token.
func RefreshTokenKey(token string) string {
	return "refresh-" + token
}

// PassResetTokenKey addresses the reset-link token slot for an identity.
func PassResetTokenKey(email string, role user.Role) string {
	return fmt.Sprintf("%s-%s-reset-token", email, role)
}

// PassResetOTPKey addresses the reset OTP slot for an identity.
func PassResetOTPKey(email string, role user.Role) string {
	return fmt.Sprintf("%s-%s-reset-otp", email, role)
}
