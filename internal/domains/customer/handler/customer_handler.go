package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medlink-backend/internal/domains/customer"
	"medlink-backend/internal/domains/customer/service"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/internal/shared/middleware"
	"medlink-backend/internal/shared/response"
)

type CustomerHandler struct {
	customerService service.ServiceInterface
}

func NewCustomerHandler(customerService service.ServiceInterface) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextUserID))
	if err != nil {
		response.HandleError(c, httperror.Unauthorized())
		return uuid.Nil, false
	}
	return id, true
}

// GetProfile returns the customer's profile and completion status
// GET /api/v1/customers/profile
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.customerService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile status.", status)
}

// SetProfile creates or replaces the customer's profile
// PUT /api/v1/customers/profile
func (h *CustomerHandler) SetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req customer.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	profile, err := h.customerService.SetProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved.", profile)
}

// Recommendations lists medicines matching the customer's conditions
// GET /api/v1/customers/recommendations?count=&page=
func (h *CustomerHandler) Recommendations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	count, _ := strconv.Atoi(c.DefaultQuery("count", "5"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	medicines, err := h.customerService.Recommendations(c.Request.Context(), userID, count, page)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Recommendations.", medicines)
}
