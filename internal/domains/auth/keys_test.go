package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medlink-backend/internal/domains/user"
)

func TestKeyPurposesNeverCollide(t *testing.T) {
	email, role := "a@x.com", user.RoleCustomer
	token := "deadbeef"

	keys := []string{
		SignupOTPKey(email, role),
		PassResetTokenKey(email, role),
		PassResetOTPKey(email, role),
		AccessTokenKey(token),
		RefreshTokenKey(token),
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestKeysAreIdentityScoped(t *testing.T) {
	// the same email under different roles must address different slots
	assert.NotEqual(t,
		SignupOTPKey("a@x.com", user.RoleCustomer),
		SignupOTPKey("a@x.com", user.RolePharmacist),
	)
	assert.NotEqual(t,
		PassResetOTPKey("a@x.com", user.RoleCustomer),
		PassResetOTPKey("a@x.com", user.RolePharmacist),
	)

	// different tokens address different sessions
	assert.NotEqual(t, AccessTokenKey("t1"), AccessTokenKey("t2"))
	assert.NotEqual(t, AccessTokenKey("t1"), RefreshTokenKey("t1"))
}
