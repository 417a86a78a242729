package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cuisinecraft/engine/pkg/models"
)

// Store interfaces consumed by the services. The concrete implementations
// live in internal/store; tests substitute in-memory fakes.

type RecipeReader interface {
	All(ctx context.Context) ([]models.Recipe, error)
	ByID(ctx context.Context, recipeID int64) (*models.Recipe, error)
	ByIDs(ctx context.Context, recipeIDs []int64) (map[int64]models.Recipe, error)
	MatchingTags(ctx context.Context, tags []string) ([]models.Recipe, error)
	PopularRecipeIDs(ctx context.Context) ([]int64, error)
	FavoriteRecipeIDs(ctx context.Context, userID uuid.UUID) ([]int64, error)
	FavoriteIngredients(ctx context.Context, userID uuid.UUID, topN int) ([]string, error)
}

type InteractionReader interface {
	Since(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]models.RecipeInteraction, error)
}

type PreferenceReader interface {
	Restrictions(ctx context.Context, userID uuid.UUID) ([]string, error)
}
