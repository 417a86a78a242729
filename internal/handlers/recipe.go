package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/middleware"
	"github.com/cuisinecraft/engine/internal/services"
	"github.com/cuisinecraft/engine/internal/store"
	"github.com/cuisinecraft/engine/internal/validation"
	"github.com/cuisinecraft/engine/pkg/models"
)

type RecipeHandler struct {
	logger    *logrus.Logger
	services  *services.Services
	validator *validation.SchemaValidator
}

func NewRecipeHandler(logger *logrus.Logger, svcs *services.Services, validator *validation.SchemaValidator) *RecipeHandler {
	return &RecipeHandler{
		logger:    logger,
		services:  svcs,
		validator: validator,
	}
}

// List returns the catalog filtered by the caller's dietary restrictions.
func (h *RecipeHandler) List(c *gin.Context) {
	userID := middleware.GetUserFromContext(c)

	recipes, err := h.services.DietaryFilter.AllowedForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list recipes")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECIPE_LIST_FAILED",
				"message": "Failed to list recipes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// Get returns one recipe and records a view interaction for signed-in users.
func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	recipe, err := h.services.Recipes.ByID(c.Request.Context(), recipeID)
	if err != nil {
		if errors.Is(err, store.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "RECIPE_NOT_FOUND",
					"message": "Recipe not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to load recipe")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECIPE_LOAD_FAILED",
				"message": "Failed to load recipe",
			},
		})
		return
	}

	if userID := middleware.GetUserFromContext(c); userID != uuid.Nil {
		h.recordInteraction(c, userID, recipeID, models.InteractionView)
	}

	c.JSON(http.StatusOK, recipe)
}

// Search matches recipes against a free-text query.
func (h *RecipeHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"recipes": []models.Recipe{}, "count": 0})
		return
	}

	recipes, err := h.services.Recipes.Search(c.Request.Context(), query)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search recipes")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECIPE_SEARCH_FAILED",
				"message": "Failed to search recipes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes, "count": len(recipes)})
}

// Similar returns recipes closest to the given one in the similarity index.
func (h *RecipeHandler) Similar(c *gin.Context) {
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	count := 0
	if countStr := c.Query("count"); countStr != "" {
		if parsed, err := strconv.Atoi(countStr); err == nil && parsed > 0 && parsed <= 50 {
			count = parsed
		}
	}

	results, err := h.services.Recommendations.FindSimilarRecipes(c.Request.Context(), recipeID, count)
	if err != nil {
		h.logger.WithError(err).Error("Failed to find similar recipes")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "SIMILARITY_LOOKUP_FAILED",
				"message": "Failed to find similar recipes",
			},
		})
		return
	}
	if results == nil {
		results = []models.ScoredRecipe{}
	}

	c.JSON(http.StatusOK, gin.H{"recipe_id": recipeID, "similar": results})
}

// ToggleFavorite flips the saved state, records a favorite interaction when
// saving, and invalidates the user's recommendation caches.
func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserFromContext(c)

	saved, err := h.services.Recipes.ToggleFavorite(c.Request.Context(), userID, recipeID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to toggle favorite")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "FAVORITE_TOGGLE_FAILED",
				"message": "Failed to update favorite",
			},
		})
		return
	}

	if saved {
		h.recordInteraction(c, userID, recipeID, models.InteractionFavorite)
	}

	if err := h.services.Recommendations.InvalidateUserCaches(c.Request.Context(), userID); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate caches after favorite toggle")
	}

	c.JSON(http.StatusOK, gin.H{"recipe_id": recipeID, "saved": saved})
}

// Cooked records a cook interaction.
func (h *RecipeHandler) Cooked(c *gin.Context) {
	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserFromContext(c)

	interaction, err := h.services.Interactions.Record(c.Request.Context(), userID, recipeID, models.InteractionCook)
	if err != nil {
		h.logger.WithError(err).Error("Failed to record cook interaction")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERACTION_RECORD_FAILED",
				"message": "Failed to record interaction",
			},
		})
		return
	}

	h.publishInteraction(c, interaction)

	if err := h.services.Recommendations.InvalidateUserCaches(c.Request.Context(), userID); err != nil {
		h.logger.WithError(err).Warn("Failed to invalidate caches after cook interaction")
	}

	c.JSON(http.StatusCreated, interaction)
}

// Ingest stores a new recipe after JSON schema validation.
func (h *RecipeHandler) Ingest(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Failed to read request body",
			},
		})
		return
	}

	if result := h.validator.ValidateRecipeIngestion(body); !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "SCHEMA_VALIDATION_FAILED",
				"message": "Recipe payload failed validation",
				"details": result.Errors,
			},
		})
		return
	}

	var req models.RecipeIngestionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Request body must be valid JSON",
			},
		})
		return
	}

	recipeID, err := h.services.Recipes.Insert(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to ingest recipe")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "RECIPE_INGESTION_FAILED",
				"message": "Failed to store recipe",
			},
		})
		return
	}

	// New catalog entries make the similarity index stale.
	if err := h.services.Similarity.Rebuild(c.Request.Context()); err != nil {
		h.logger.WithError(err).Warn("Failed to rebuild similarity index after ingestion")
	}

	c.JSON(http.StatusCreated, gin.H{"recipe_id": recipeID})
}

func (h *RecipeHandler) recordInteraction(c *gin.Context, userID uuid.UUID, recipeID int64, kind string) {
	interaction, err := h.services.Interactions.Record(c.Request.Context(), userID, recipeID, kind)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"recipe_id": recipeID,
			"type":      kind,
		}).Warn("Failed to record interaction")
		return
	}
	h.publishInteraction(c, interaction)
}

func (h *RecipeHandler) publishInteraction(c *gin.Context, interaction *models.RecipeInteraction) {
	if err := h.services.Events.PublishInteraction(c.Request.Context(), interaction); err != nil {
		h.logger.WithError(err).Warn("Failed to publish interaction event")
	}
}

func parseRecipeID(c *gin.Context) (int64, bool) {
	recipeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || recipeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_RECIPE_ID",
				"message": "Recipe id must be a positive integer",
			},
		})
		return 0, false
	}
	return recipeID, true
}
