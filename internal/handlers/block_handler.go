package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services"
	"cargolink_backend/pkg/apperrors"
)

type BlockHandler struct {
	*BaseHandler
	blockService services.BlockService
}

func NewBlockHandler(base *BaseHandler, blockService services.BlockService) *BlockHandler {
	return &BlockHandler{BaseHandler: base, blockService: blockService}
}

func (h *BlockHandler) RegisterRoutes(api *gin.RouterGroup) {
	blocks := api.Group("/blocks")
	{
		blocks.GET("", h.List)
		blocks.POST("", h.Block)
		blocks.DELETE("/:userId", h.Unblock)
	}
}

type blockRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

// POST /api/blocks
func (h *BlockHandler) Block(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req blockRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.blockService.Block(userID, req.UserID, req.Reason); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfBlock):
			apperrors.HandleError(c, apperrors.NewBadRequestError("Cannot block yourself"))
		case errors.Is(err, repositories.ErrUserNotFound):
			apperrors.HandleError(c, apperrors.NotFoundError(err, "user"))
		default:
			h.HandleServiceError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// DELETE /api/blocks/:userId
func (h *BlockHandler) Unblock(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.blockService.Unblock(userID, c.Param("userId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/blocks
func (h *BlockHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	blocks, err := h.blockService.ListBlocked(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocks": blocks, "total": len(blocks)})
}
