package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"medlink-backend/internal/domains/auth"
	"medlink-backend/internal/domains/user"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/internal/shared/response"
	"medlink-backend/pkg/cache"
)

const (
	ContextUserID      = "user_id"
	ContextUserRole    = "user_role"
	ContextAccessToken = "access_token"
)

// Auth resolves the opaque bearer token against the session store.
// Every failure path returns the same 401 so callers cannot probe
// which part of the check failed.
func Auth(store cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token from "Bearer <token>"
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			abortUnauthorized(c)
			return
		}
		token := strings.TrimSpace(header[len(prefix):])
		if token == "" {
			abortUnauthorized(c)
			return
		}

		// 2. Resolve the session
		var session auth.Session
		found, err := store.GetJSON(c.Request.Context(), auth.AccessTokenKey(token), &session)
		if err != nil || !found {
			abortUnauthorized(c)
			return
		}

		// 3. Expose identity to downstream handlers
		c.Set(ContextUserID, session.UserID)
		c.Set(ContextUserRole, session.Role)
		c.Set(ContextAccessToken, token)
		c.Next()
	}
}

// RequireRole gates a route group to one account role. A wrong role gets
// the same 401 as a missing session.
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get(ContextUserRole)
		if !exists {
			abortUnauthorized(c)
			return
		}
		if r, ok := got.(user.Role); !ok || r != role {
			abortUnauthorized(c)
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	response.HandleError(c, httperror.Unauthorized())
	c.Abort()
}
