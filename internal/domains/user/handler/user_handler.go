package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medlink-backend/internal/domains/user/service"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/internal/shared/middleware"
	"medlink-backend/internal/shared/response"
)

type UserHandler struct {
	userService service.ServiceInterface
}

func NewUserHandler(userService service.ServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the authenticated account's profile
// GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		response.HandleError(c, httperror.Unauthorized())
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile.", profile)
}
