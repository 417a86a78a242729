package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuisinecraft/engine/pkg/models"
)

func newTestMatcher(recipes []models.Recipe, restrictions map[uuid.UUID][]string) *IngredientMatcherService {
	cfg := testConfig()
	logger := testLogger()
	cache := NewMemoryCache()
	recipeStore := &fakeRecipeStore{recipes: recipes}
	prefs := &fakePreferenceStore{restrictions: restrictions}
	dietary := NewDietaryFilterService(recipeStore, prefs, cache, cfg, logger)
	return NewIngredientMatcherService(recipeStore, dietary, cache, cfg, logger)
}

func TestTermMatchesIngredient(t *testing.T) {
	tests := []struct {
		term       string
		ingredient string
		want       bool
	}{
		{"tomato", "tomatoes", true},
		{"tomatoes", "tomato", true},
		{"egg", "eggplant", true},
		{"chicken", "chicken breast", true},
		{"garlic", "garlic clove", true},
		{"jalapeno", "jalapeño pepper", true},
		{"beef", "chicken", false},
		// Only the trailing "s" folds; irregular plurals stay distinct.
		{"berries", "berry", false},
		{"", "onion", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, termMatchesIngredient(tt.term, tt.ingredient),
			"match(%q, %q)", tt.term, tt.ingredient)
	}
}

func TestIngredientMatcherService_Search(t *testing.T) {
	recipes := []models.Recipe{
		recipe(1, "Roast Chicken", nil, "chicken breast", "garlic clove", "onion"),
		recipe(2, "Chicken Leek Pie", nil, "chicken", "leek"),
	}
	matcher := newTestMatcher(recipes, nil)

	t.Run("every term must match some ingredient", func(t *testing.T) {
		results, err := matcher.Search(context.Background(), uuid.Nil, "chicken, garlic", 5)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(1), results[0].ID)
	})

	t.Run("blank query short-circuits", func(t *testing.T) {
		results, err := matcher.Search(context.Background(), uuid.Nil, " , ", 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("limit truncates", func(t *testing.T) {
		results, err := matcher.Search(context.Background(), uuid.Nil, "chicken", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestIngredientMatcherService_Search_DietaryFilter(t *testing.T) {
	userID := uuid.New()
	recipes := []models.Recipe{
		recipe(1, "Tofu Stir Fry", []string{"vegetarian"}, "tofu", "soy sauce"),
		recipe(2, "Beef Stir Fry", nil, "beef", "soy sauce"),
	}
	matcher := newTestMatcher(recipes, map[uuid.UUID][]string{userID: {"vegetarian"}})

	results, err := matcher.Search(context.Background(), userID, "soy sauce", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestIngredientMatcherService_AlmostMatching(t *testing.T) {
	recipes := []models.Recipe{
		recipe(1, "Tomato Pasta", nil, "tomato", "pasta", "basil"),
		recipe(2, "Tomato Salad", nil, "tomato", "cucumber"),
		recipe(3, "Fruit Bowl", nil, "apple", "banana", "kiwi"),
	}
	matcher := newTestMatcher(recipes, nil)

	t.Run("bounds on missing and matched counts", func(t *testing.T) {
		results, err := matcher.AlmostMatching(context.Background(), uuid.Nil, "tomato, pasta", 10, 2)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		for _, match := range results {
			assert.GreaterOrEqual(t, len(match.MissingIngredients), 1)
			assert.LessOrEqual(t, len(match.MissingIngredients), 2)
			assert.Greater(t, len(match.Recipe.Ingredients), len(match.MissingIngredients))
		}
		// Recipe 3 matches nothing and must not appear.
		for _, match := range results {
			assert.NotEqual(t, int64(3), match.Recipe.ID)
		}
	})

	t.Run("higher coverage ranks first", func(t *testing.T) {
		results, err := matcher.AlmostMatching(context.Background(), uuid.Nil, "tomato, pasta", 10, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		// Recipe 1 uses both query terms and misses only basil.
		assert.Equal(t, int64(1), results[0].Recipe.ID)
		assert.Equal(t, []string{"basil"}, results[0].MissingIngredients)
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		results, err := matcher.AlmostMatching(context.Background(), uuid.Nil, "", 10, 2)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("results are cached", func(t *testing.T) {
		first, err := matcher.AlmostMatching(context.Background(), uuid.Nil, "tomato", 10, 1)
		require.NoError(t, err)
		second, err := matcher.AlmostMatching(context.Background(), uuid.Nil, "tomato", 10, 1)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
