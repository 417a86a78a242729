package services

import (
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/internal/database"
	"github.com/cuisinecraft/engine/internal/messaging"
	"github.com/cuisinecraft/engine/internal/store"
)

type Services struct {
	Auth              *AuthService
	Health            *HealthService
	Events            *messaging.EventPublisher
	Recipes           *store.RecipeStore
	Interactions      *store.InteractionStore
	Preferences       *store.PreferenceStore
	DietaryFilter     *DietaryFilterService
	Similarity        *SimilarityIndex
	IngredientMatcher *IngredientMatcherService
	InteractionScorer *InteractionScorerService
	Recommendations   *RecommendationService
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	authService := NewAuthService(cfg, logger, db.Redis.Hot)
	healthService := NewHealthService(cfg, logger, db)

	eventPublisher, err := messaging.NewEventPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}

	recipeStore := store.NewRecipeStore(db.PG, logger)
	interactionStore := store.NewInteractionStore(db.PG, logger)
	preferenceStore := store.NewPreferenceStore(db.PG, logger)

	cache := NewRedisCache(db.Redis.Warm)

	dietaryFilter := NewDietaryFilterService(recipeStore, preferenceStore, cache, cfg, logger)
	similarity := NewSimilarityIndex(recipeStore, cfg, logger)
	ingredientMatcher := NewIngredientMatcherService(recipeStore, dietaryFilter, cache, cfg, logger)
	interactionScorer := NewInteractionScorerService(interactionStore, cache, cfg, logger)

	recommendations := NewRecommendationService(
		recipeStore, dietaryFilter, similarity, interactionScorer, cache, cfg, logger,
	)

	return &Services{
		Auth:              authService,
		Health:            healthService,
		Events:            eventPublisher,
		Recipes:           recipeStore,
		Interactions:      interactionStore,
		Preferences:       preferenceStore,
		DietaryFilter:     dietaryFilter,
		Similarity:        similarity,
		IngredientMatcher: ingredientMatcher,
		InteractionScorer: interactionScorer,
		Recommendations:   recommendations,
	}, nil
}
