package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/middleware"
	"github.com/cuisinecraft/engine/internal/services"
	"github.com/cuisinecraft/engine/pkg/models"
)

const defaultSearchLimit = 20

type IngredientHandler struct {
	logger   *logrus.Logger
	services *services.Services
}

func NewIngredientHandler(logger *logrus.Logger, svcs *services.Services) *IngredientHandler {
	return &IngredientHandler{logger: logger, services: svcs}
}

// Search returns recipes fully covered by the comma-separated ingredient
// query, respecting the caller's dietary restrictions.
func (h *IngredientHandler) Search(c *gin.Context) {
	userID := middleware.GetUserFromContext(c)
	query := c.Query("q")
	limit := parseLimit(c, defaultSearchLimit)

	recipes, err := h.services.IngredientMatcher.Search(c.Request.Context(), userID, query, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search by ingredients")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INGREDIENT_SEARCH_FAILED",
				"message": "Failed to search by ingredients",
			},
		})
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// AlmostMatch returns recipes the query nearly covers, with what is missing.
func (h *IngredientHandler) AlmostMatch(c *gin.Context) {
	userID := middleware.GetUserFromContext(c)
	query := c.Query("q")
	limit := parseLimit(c, defaultSearchLimit)

	maxMissing := 0
	if maxStr := c.Query("max_missing"); maxStr != "" {
		if parsed, err := strconv.Atoi(maxStr); err == nil && parsed > 0 && parsed <= 10 {
			maxMissing = parsed
		}
	}

	matches, err := h.services.IngredientMatcher.AlmostMatching(c.Request.Context(), userID, query, limit, maxMissing)
	if err != nil {
		h.logger.WithError(err).Error("Failed to find almost-matching recipes")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "ALMOST_MATCH_FAILED",
				"message": "Failed to find almost-matching recipes",
			},
		})
		return
	}
	if matches == nil {
		matches = []models.AlmostMatch{}
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches, "count": len(matches)})
}

// Substitutions suggests replacements for one ingredient.
func (h *IngredientHandler) Substitutions(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_INGREDIENT_NAME",
				"message": "Query parameter 'name' is required",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.SubstitutionResponse{
		Ingredient:    name,
		Substitutions: services.SuggestSubstitutions(name),
	})
}

func parseLimit(c *gin.Context, fallback int) int {
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			return parsed
		}
	}
	return fallback
}
