package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultKeyLength is the byte length of generated session tokens.
// Hex encoding doubles it on the wire.
const DefaultKeyLength = 32

// bcryptCost balances security and login latency.
const bcryptCost = 10

// Hash returns a salted bcrypt hash of the secret.
// Used for passwords and OTP codes alike so stored values are never plaintext.
func Hash(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether secret matches the bcrypt hash.
// bcrypt.CompareHashAndPassword is constant-time on the digest.
func Compare(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// GenerateSessionID returns a hex-encoded token with length random bytes
// behind it. The entropy source failing is fatal for the caller; there is
// no fallback to a weaker generator.
func GenerateSessionID(length int) (string, error) {
	if length <= 0 {
		length = DefaultKeyLength
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var ten = big.NewInt(10)

// GenerateOTP returns a fixed-width numeric code. Each digit is drawn
// independently and uniformly from crypto/rand, so leading zeros survive
// and no modulo bias is introduced.
func GenerateOTP(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}

	return sb.String(), nil
}
