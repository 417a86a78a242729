package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// favoriteIngredientLimit bounds the taste-profile size.
const favoriteIngredientLimit = 10

// FavoriteIngredientProfile returns the ingredients appearing most often in
// the user's favorited recipes, cached per user. Empty for anonymous users.
func (s *RecommendationService) FavoriteIngredientProfile(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if userID == uuid.Nil {
		return []string{}, nil
	}

	cacheKey := favoriteIngredientsKey(userID)

	var ingredients []string
	if err := s.cache.Get(ctx, cacheKey, &ingredients); err == nil {
		return ingredients, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Warn("Failed to read cached favorite ingredients")
	}

	ingredients, err := s.recipes.FavoriteIngredients(ctx, userID, favoriteIngredientLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite ingredients: %w", err)
	}
	if ingredients == nil {
		ingredients = []string{}
	}

	if err := s.cache.Set(ctx, cacheKey, ingredients, s.config.Recommendation.Caching.FavoriteIngredientsTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache favorite ingredients")
	}

	return ingredients, nil
}
