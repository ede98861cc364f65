package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cargolink_backend/internal/repositories"
	"cargolink_backend/internal/services"
	"cargolink_backend/pkg/apperrors"
)

type MatchingHandler struct {
	*BaseHandler
	matchingService services.MatchingService
}

func NewMatchingHandler(base *BaseHandler, matchingService services.MatchingService) *MatchingHandler {
	return &MatchingHandler{BaseHandler: base, matchingService: matchingService}
}

func (h *MatchingHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/orders/:id/matches", h.MatchesForOrder)
	api.GET("/transports/:id/matches", h.MatchesForTransport)
}

// GET /api/orders/:id/matches
// Подбор транспорта для заказа. Собственный транспорт запрашивающего
// исключается из выдачи.
func (h *MatchingHandler) MatchesForOrder(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchingService.FindMatchesForOrder(c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			apperrors.HandleError(c, apperrors.NotFoundError(err, "order"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}

// GET /api/transports/:id/matches
func (h *MatchingHandler) MatchesForTransport(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchingService.FindMatchesForTransport(c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransportNotFound) {
			apperrors.HandleError(c, apperrors.NotFoundError(err, "transport"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
		"total":   len(matches),
	})
}
