package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/pkg/models"
)

// DietaryFilterService resolves a user's dietary restrictions and excludes
// recipes that do not satisfy all of them. A recipe qualifies only when its
// tag set is a superset of the user's restriction set.
type DietaryFilterService struct {
	recipes     RecipeReader
	preferences PreferenceReader
	cache       Cache
	config      *config.Config
	logger      *logrus.Logger
}

func NewDietaryFilterService(
	recipes RecipeReader,
	preferences PreferenceReader,
	cache Cache,
	cfg *config.Config,
	logger *logrus.Logger,
) *DietaryFilterService {
	return &DietaryFilterService{
		recipes:     recipes,
		preferences: preferences,
		cache:       cache,
		config:      cfg,
		logger:      logger,
	}
}

// Restrictions returns the user's selected restriction types, cached.
// Anonymous users have no restrictions.
func (s *DietaryFilterService) Restrictions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	cacheKey := preferencesKey(userID)

	var restrictions []string
	if err := s.cache.Get(ctx, cacheKey, &restrictions); err == nil {
		return restrictions, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Warn("Failed to read cached preferences")
	}

	restrictions, err := s.preferences.Restrictions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dietary restrictions: %w", err)
	}
	if restrictions == nil {
		restrictions = []string{}
	}

	if err := s.cache.Set(ctx, cacheKey, restrictions, s.config.Recommendation.Caching.PreferencesTTL); err != nil {
		s.logger.WithError(err).Warn("Failed to cache preferences")
	}

	return restrictions, nil
}

// Allowed reports whether a recipe satisfies every restriction.
func Allowed(recipe *models.Recipe, restrictions []string) bool {
	if len(restrictions) == 0 {
		return true
	}

	tags := make(map[string]struct{}, len(recipe.DietaryTags))
	for _, tag := range recipe.DietaryTags {
		tags[tag] = struct{}{}
	}

	for _, restriction := range restrictions {
		if _, ok := tags[restriction]; !ok {
			return false
		}
	}
	return true
}

// Filter returns the subset of recipes allowed for the restriction set,
// preserving input order.
func (s *DietaryFilterService) Filter(recipes []models.Recipe, restrictions []string) []models.Recipe {
	if len(restrictions) == 0 {
		return recipes
	}

	filtered := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if Allowed(&recipe, restrictions) {
			filtered = append(filtered, recipe)
		}
	}
	return filtered
}

// AllowedForUser returns every catalog recipe the user's restrictions admit,
// pushing the tag containment check down to the database.
func (s *DietaryFilterService) AllowedForUser(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error) {
	restrictions, err := s.Restrictions(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipes.MatchingTags(ctx, restrictions)
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed recipes: %w", err)
	}
	return recipes, nil
}
