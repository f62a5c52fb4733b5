package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medlink-backend/internal/domains/auth"
	"medlink-backend/internal/domains/auth/service"
	"medlink-backend/internal/shared/httperror"
	"medlink-backend/internal/shared/response"
)

// =====================================================
// AUTH HANDLER
// =====================================================

type AuthHandler struct {
	authService service.ServiceInterface
}

func NewAuthHandler(authService service.ServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// bearerToken pulls the opaque token out of the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// Signup starts email verification for a new account
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Verification code sent.", result)
}

// VerifyEmail completes a pending signup
// POST /api/v1/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req auth.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	profile, err := h.authService.VerifyEmail(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Account created.", profile)
}

// Login authenticates an account
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Logged in.", result)
}

// RefreshToken rotates the access token of a remembered session
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.HandleError(c, httperror.Unauthorized())
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Token refreshed.", result)
}

// Logout revokes the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		response.HandleError(c, httperror.Unauthorized())
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out.", nil)
}

// ForgotPassword issues reset credentials
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	result, err := h.authService.ForgotPassword(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Reset instructions sent.", result)
}

// ResetPassword sets a new password from a reset credential
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, httperror.BadRequest("Invalid request body."))
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated.", nil)
}
