package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services"
	"cargolink_backend/internal/services/dto"
	"cargolink_backend/pkg/apperrors"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, authService: authService}
}

func (h *AuthHandler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			apperrors.HandleError(c, apperrors.NewConflictError("auth", "User with this email already exists"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid email or password"))
			return
		}
		if errors.Is(err, services.ErrAccessDenied) {
			apperrors.HandleError(c, apperrors.NewForbiddenError("Account is blocked"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
