package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/middleware"
	"github.com/cuisinecraft/engine/internal/services"
)

type RecommendationHandler struct {
	logger          *logrus.Logger
	recommendations *services.RecommendationService
}

func NewRecommendationHandler(logger *logrus.Logger, recommendations *services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{logger: logger, recommendations: recommendations}
}

// Get returns the personalized recommendation list for the caller. Anonymous
// callers receive an empty list.
func (h *RecommendationHandler) Get(c *gin.Context) {
	userID := middleware.GetUserFromContext(c)

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	response, err := h.recommendations.GetPersonalizedRecommendations(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECOMMENDATION_GENERATION_FAILED",
				"message": "Failed to generate recommendations",
			},
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
