package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/internal/config"
	"github.com/cuisinecraft/engine/pkg/models"
)

// fakeRecipeStore serves a fixed catalog from memory.
type fakeRecipeStore struct {
	recipes   []models.Recipe
	favorites map[uuid.UUID][]int64
	popular   []int64
}

func (f *fakeRecipeStore) All(ctx context.Context) ([]models.Recipe, error) {
	out := append([]models.Recipe(nil), f.recipes...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRecipeStore) ByID(ctx context.Context, recipeID int64) (*models.Recipe, error) {
	for i := range f.recipes {
		if f.recipes[i].ID == recipeID {
			recipe := f.recipes[i]
			return &recipe, nil
		}
	}
	return nil, nil
}

func (f *fakeRecipeStore) ByIDs(ctx context.Context, recipeIDs []int64) (map[int64]models.Recipe, error) {
	byID := make(map[int64]models.Recipe)
	for _, id := range recipeIDs {
		for i := range f.recipes {
			if f.recipes[i].ID == id {
				byID[id] = f.recipes[i]
			}
		}
	}
	return byID, nil
}

func (f *fakeRecipeStore) MatchingTags(ctx context.Context, tags []string) ([]models.Recipe, error) {
	all, _ := f.All(ctx)
	if len(tags) == 0 {
		return all, nil
	}
	var matched []models.Recipe
	for _, recipe := range all {
		if Allowed(&recipe, tags) {
			matched = append(matched, recipe)
		}
	}
	return matched, nil
}

func (f *fakeRecipeStore) PopularRecipeIDs(ctx context.Context) ([]int64, error) {
	return append([]int64(nil), f.popular...), nil
}

func (f *fakeRecipeStore) FavoriteRecipeIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	return append([]int64(nil), f.favorites[userID]...), nil
}

func (f *fakeRecipeStore) FavoriteIngredients(ctx context.Context, userID uuid.UUID, topN int) ([]string, error) {
	counts := make(map[string]int)
	for _, id := range f.favorites[userID] {
		for i := range f.recipes {
			if f.recipes[i].ID != id {
				continue
			}
			for _, ingredient := range f.recipes[i].Ingredients {
				counts[ingredient.Name]++
			}
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topN {
		names = names[:topN]
	}
	return names, nil
}

type fakeInteractionStore struct {
	interactions []models.RecipeInteraction
}

func (f *fakeInteractionStore) Since(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]models.RecipeInteraction, error) {
	var out []models.RecipeInteraction
	for _, interaction := range f.interactions {
		if interaction.UserID == userID && !interaction.Timestamp.Before(cutoff) {
			out = append(out, interaction)
		}
	}
	return out, nil
}

type fakePreferenceStore struct {
	restrictions map[uuid.UUID][]string
}

func (f *fakePreferenceStore) Restrictions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return append([]string(nil), f.restrictions[userID]...), nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Recommendation.MaxResults = 12
	cfg.Recommendation.Similarity.TopN = 3
	cfg.Recommendation.Similarity.MinDocFreq = 2
	cfg.Recommendation.Similarity.IndexTTL = 24 * time.Hour
	cfg.Recommendation.Interactions.WindowDays = 30
	cfg.Recommendation.Interactions.FavoriteWeight = 5.0
	cfg.Recommendation.Interactions.CookWeight = 3.0
	cfg.Recommendation.Interactions.ViewWeight = 1.0
	cfg.Recommendation.Interactions.DefaultWeight = 1.0
	cfg.Recommendation.Caching.PreferencesTTL = 6 * time.Hour
	cfg.Recommendation.Caching.FavoriteIngredientsTTL = 30 * time.Minute
	cfg.Recommendation.Caching.RecommendationsTTL = 30 * time.Minute
	cfg.Recommendation.Caching.InteractionScoresTTL = 20 * time.Minute
	cfg.Recommendation.Caching.AlmostMatchTTL = 5 * time.Minute
	return cfg
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func recipe(id int64, title string, tags []string, ingredients ...string) models.Recipe {
	r := models.Recipe{ID: id, Title: title, DietaryTags: tags}
	for _, name := range ingredients {
		r.Ingredients = append(r.Ingredients, models.RecipeIngredient{Name: name})
	}
	return r
}
