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

type OrderHandler struct {
	*BaseHandler
	orderService services.OrderService
}

func NewOrderHandler(base *BaseHandler, orderService services.OrderService) *OrderHandler {
	return &OrderHandler{BaseHandler: base, orderService: orderService}
}

func (h *OrderHandler) RegisterRoutes(api *gin.RouterGroup) {
	orders := api.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("/my", h.ListMy)
		orders.GET("/:id", h.GetByID)
		orders.PUT("/:id", h.Update)
		orders.PATCH("/:id/active", h.SetActive)
	}
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOrderRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.orderService.Create(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// PUT /api/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.orderService.Update(userID, c.Param("id"), &req)
	if err != nil {
		h.handleOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	resp, err := h.orderService.GetByID(c.Param("id"))
	if err != nil {
		h.handleOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/orders/my
func (h *OrderHandler) ListMy(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	orders, total, err := h.orderService.ListByOwner(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// PATCH /api/orders/:id/active
func (h *OrderHandler) SetActive(c *gin.Context) {
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

	if err := h.orderService.SetActive(userID, c.Param("id"), *req.IsActive); err != nil {
		h.handleOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *OrderHandler) handleOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound):
		apperrors.HandleError(c, apperrors.NotFoundError(err, "order"))
	case errors.Is(err, services.ErrAccessDenied):
		apperrors.HandleError(c, apperrors.NewForbiddenError("Order belongs to another user"))
	default:
		h.HandleServiceError(c, err)
	}
}
