package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register creates a new account with email and password.
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			utils.ConflictResponse(c, "An account with this email already exists")
			return
		}
		h.logger.WithError(err).Warn("Registration rejected")
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, "Account created", response)
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.ErrorResponse(c, 401, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		h.logger.WithError(err).Error("Login failed")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Logged in", response)
}

// GoogleLogin exchanges a Google authorization code for a session.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req services.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	response, err := h.authService.GoogleLogin(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.ErrorResponse(c, 401, "INVALID_CREDENTIALS", "Google sign-in could not be verified")
			return
		}
		h.logger.WithError(err).Error("Google login failed")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Logged in", response)
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.ErrorResponse(c, 401, "INVALID_TOKEN", "Refresh token is invalid or expired")
		return
	}

	utils.SuccessResponse(c, "Token refreshed", tokens)
}

// RegisterDevice stores a push notification token for the caller.
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req struct {
		Token    string `json:"token" binding:"required"`
		Platform string `json:"platform" binding:"required,oneof=android ios web"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	if err := h.authService.RegisterDevice(c.Request.Context(), userID, req.Token, req.Platform); err != nil {
		h.logger.WithError(err).WithUserID(userID).Error("Failed to register device")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Device registered", nil)
}
