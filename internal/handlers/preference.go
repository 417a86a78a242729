package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/middleware"
	"github.com/cuisinecraft/engine/internal/services"
	"github.com/cuisinecraft/engine/pkg/models"
)

type PreferenceHandler struct {
	logger   *logrus.Logger
	services *services.Services
}

func NewPreferenceHandler(logger *logrus.Logger, svcs *services.Services) *PreferenceHandler {
	return &PreferenceHandler{logger: logger, services: svcs}
}

// Get returns every dietary choice with the caller's current selection.
func (h *PreferenceHandler) Get(c *gin.Context) {
	userID := middleware.GetUserFromContext(c)

	restrictions, err := h.services.DietaryFilter.Restrictions(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load preferences")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PREFERENCE_LOAD_FAILED",
				"message": "Failed to load preferences",
			},
		})
		return
	}

	selected := make(map[string]struct{}, len(restrictions))
	for _, restriction := range restrictions {
		selected[restriction] = struct{}{}
	}

	choices := make([]models.DietaryChoice, len(models.DietaryChoices))
	copy(choices, models.DietaryChoices)
	for i := range choices {
		_, choices[i].IsSelected = selected[choices[i].ID]
	}

	c.JSON(http.StatusOK, gin.H{"choices": choices})
}

// Update replaces the caller's restriction set and invalidates every cache
// derived from it.
func (h *PreferenceHandler) Update(c *gin.Context) {
	userID := middleware.GetUserFromContext(c)

	var req models.PreferenceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Request body must be valid JSON",
			},
		})
		return
	}

	if err := h.services.Preferences.Replace(c.Request.Context(), userID, req.Preferences); err != nil {
		h.logger.WithError(err).Error("Failed to update preferences")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PREFERENCE_UPDATE_FAILED",
				"message": "Failed to update preferences",
			},
		})
		return
	}

	if err := h.services.Recommendations.InvalidateUserCaches(c.Request.Context(), userID); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate caches after preference update")
	}

	c.JSON(http.StatusOK, gin.H{"preferences": req.Preferences})
}

// FavoriteIngredients returns the caller's most-used favorite ingredients.
func (h *PreferenceHandler) FavoriteIngredients(c *gin.Context) {
	userID := middleware.GetUserFromContext(c)

	ingredients, err := h.services.Recommendations.FavoriteIngredientProfile(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load favorite ingredients")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "FAVORITE_INGREDIENTS_FAILED",
				"message": "Failed to load favorite ingredients",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}
