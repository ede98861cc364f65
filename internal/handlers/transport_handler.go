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

type TransportHandler struct {
	*BaseHandler
	transportService services.TransportService
}

func NewTransportHandler(base *BaseHandler, transportService services.TransportService) *TransportHandler {
	return &TransportHandler{BaseHandler: base, transportService: transportService}
}

func (h *TransportHandler) RegisterRoutes(api *gin.RouterGroup) {
	transports := api.Group("/transports")
	{
		transports.POST("", h.Create)
		transports.GET("/my", h.ListMy)
		transports.GET("/:id", h.GetByID)
		transports.PUT("/:id", h.Update)
		transports.PATCH("/:id/active", h.SetActive)
	}
}

// POST /api/transports
func (h *TransportHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTransportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.transportService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// PUT /api/transports/:id
func (h *TransportHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTransportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.transportService.Update(userID, c.Param("id"), &req)
	if err != nil {
		h.handleTransportError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GET /api/transports/:id
func (h *TransportHandler) GetByID(c *gin.Context) {
	resp, err := h.transportService.GetByID(c.Param("id"))
	if err != nil {
		h.handleTransportError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/transports/my
func (h *TransportHandler) ListMy(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	transports, total, err := h.transportService.ListByOwner(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transports": transports,
		"total":      total,
		"page":       page,
		"page_size":  pageSize,
	})
}

// PATCH /api/transports/:id/active
func (h *TransportHandler) SetActive(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	if err := h.transportService.SetActive(userID, c.Param("id"), *req.IsActive); err != nil {
		h.handleTransportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TransportHandler) handleTransportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrTransportNotFound):
		apperrors.HandleError(c, apperrors.NotFoundError(err, "transport"))
	case errors.Is(err, services.ErrAccessDenied):
		apperrors.HandleError(c, apperrors.NewForbiddenError("Transport belongs to another user"))
	default:
		h.HandleServiceError(c, err)
	}
}
