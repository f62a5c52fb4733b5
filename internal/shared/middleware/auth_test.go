package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medlink-backend/internal/domains/auth"
	"medlink-backend/internal/domains/user"
	"medlink-backend/pkg/cache"
)

func setupGuard(t *testing.T) (*gin.Engine, cache.Store, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewRedisStore(client)

	r := gin.New()
	protected := r.Group("/", Auth(store))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(ContextUserID)})
	})
	pharmacist := protected.Group("/pharmacist", RequireRole(user.RolePharmacist))
	pharmacist.GET("/only", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, store, mr
}

func seedSession(t *testing.T, store cache.Store, token string, role user.Role) {
	t.Helper()
	session := auth.Session{
		UserID:      "3f2c9d1e-0000-0000-0000-000000000001",
		Role:        role,
		AccessToken: token,
	}
	require.NoError(t, store.SetJSON(t.Context(), auth.AccessTokenKey(token), session, time.Hour))
}

func doGet(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthResolvesSession(t *testing.T) {
	r, store, _ := setupGuard(t)
	seedSession(t, store, "tok-alive", user.RoleCustomer)

	w := doGet(r, "/me", "Bearer tok-alive")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3f2c9d1e")
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	r, _, _ := setupGuard(t)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "tok-alive"} {
		w := doGet(r, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	r, _, _ := setupGuard(t)

	w := doGet(r, "/me", "Bearer tok-unknown")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsExpiredSession(t *testing.T) {
	r, store, mr := setupGuard(t)
	seedSession(t, store, "tok-short", user.RoleCustomer)

	mr.FastForward(2 * time.Hour)

	w := doGet(r, "/me", "Bearer tok-short")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleWrongRoleGetsSame401(t *testing.T) {
	r, store, _ := setupGuard(t)
	seedSession(t, store, "tok-customer", user.RoleCustomer)
	seedSession(t, store, "tok-pharmacist", user.RolePharmacist)

	denied := doGet(r, "/pharmacist/only", "Bearer tok-customer")
	missing := doGet(r, "/pharmacist/only", "")
	assert.Equal(t, http.StatusUnauthorized, denied.Code)
	// wrong role and no session are indistinguishable
	assert.Equal(t, missing.Body.String(), denied.Body.String())

	allowed := doGet(r, "/pharmacist/only", "Bearer tok-pharmacist")
	assert.Equal(t, http.StatusOK, allowed.Code)
}
