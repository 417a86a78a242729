package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/services"
	"github.com/cuisinecraft/engine/internal/validation"
)

type Handlers struct {
	Health         *HealthHandler
	Auth           *AuthHandler
	Recipe         *RecipeHandler
	Ingredient     *IngredientHandler
	Recommendation *RecommendationHandler
	Preference     *PreferenceHandler
}

func New(logger *logrus.Logger, services *services.Services) (*Handlers, error) {
	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Auth:           NewAuthHandler(logger, services.Auth),
		Recipe:         NewRecipeHandler(logger, services, validator),
		Ingredient:     NewIngredientHandler(logger, services),
		Recommendation: NewRecommendationHandler(logger, services.Recommendations),
		Preference:     NewPreferenceHandler(logger, services),
	}, nil
}
