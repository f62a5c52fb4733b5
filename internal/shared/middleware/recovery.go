package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"medlink-backend/internal/shared/httperror"
	"medlink-backend/internal/shared/response"
)

// Recovery converts a handler panic into a generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(ContextRequestID)).
					Interface("panic", r).
					Msg("Panic recovered")

				response.Fail(c, http.StatusInternalServerError,
					httperror.CodeInternalError, "Internal server error.", nil)
				c.Abort()
			}
		}()

		c.Next()
	}
}
