package models

import (
	"time"

	"github.com/google/uuid"
)

// ScoredRecipe pairs a recipe id with the score a ranking stage assigned it.
type ScoredRecipe struct {
	RecipeID int64   `json:"recipe_id"`
	Score    float64 `json:"score"`
}

type RecommendationResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Recipes     []Recipe  `json:"recipes"`
	GeneratedAt time.Time `json:"generated_at"`
	CacheHit    bool      `json:"cache_hit"`
}

// AlmostMatch is a recipe the supplied ingredients nearly cover, together
// with what is still missing and its composite relevance score.
type AlmostMatch struct {
	Recipe             Recipe   `json:"recipe"`
	MissingIngredients []string `json:"missing_ingredients"`
	Score              float64  `json:"score"`
}

type SubstitutionResponse struct {
	Ingredient    string   `json:"ingredient"`
	Substitutions []string `json:"substitutions"`
}
