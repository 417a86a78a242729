package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuisinecraft/engine/pkg/models"
)

func setupRecipeStore(t *testing.T) (*RecipeStore, pgxmock.PgxPoolIface) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	return NewRecipeStore(mock, logger), mock
}

func TestRecipeStore_ByID(t *testing.T) {
	store, mock := setupRecipeStore(t)
	defer mock.Close()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns recipe with ingredients", func(t *testing.T) {
		mock.ExpectQuery("SELECT recipe_id, title, instructions, dietary_tags, created_at").
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "title", "instructions", "dietary_tags", "created_at"}).
				AddRow(int64(7), "Lentil Soup", "Simmer everything.", []byte(`["vegetarian","gluten-free"]`), createdAt))

		mock.ExpectQuery("SELECT ri.recipe_id, i.name, ri.measurement").
			WithArgs([]int64{7}).
			WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "name", "measurement"}).
				AddRow(int64(7), "lentils", "2 cups").
				AddRow(int64(7), "onion", "1"))

		recipe, err := store.ByID(context.Background(), 7)
		require.NoError(t, err)

		assert.Equal(t, int64(7), recipe.ID)
		assert.Equal(t, "Lentil Soup", recipe.Title)
		assert.Equal(t, []string{"vegetarian", "gluten-free"}, recipe.DietaryTags)
		require.Len(t, recipe.Ingredients, 2)
		assert.Equal(t, "lentils", recipe.Ingredients[0].Name)
		assert.Equal(t, "2 cups", recipe.Ingredients[0].Measurement)
	})

	t.Run("unknown id returns ErrRecipeNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT recipe_id, title, instructions, dietary_tags, created_at").
			WithArgs(int64(999)).
			WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "title", "instructions", "dietary_tags", "created_at"}))

		_, err := store.ByID(context.Background(), 999)
		assert.ErrorIs(t, err, ErrRecipeNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_PopularRecipeIDs(t *testing.T) {
	store, mock := setupRecipeStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT recipe_id, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "favorites"}).
			AddRow(int64(3), 12).
			AddRow(int64(1), 12).
			AddRow(int64(8), 4))

	ids, err := store.PopularRecipeIDs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 1, 8}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_ToggleFavorite(t *testing.T) {
	store, mock := setupRecipeStore(t)
	defer mock.Close()

	userID := uuid.New()

	t.Run("saves when no row exists", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM saved_recipes").
			WithArgs(userID, int64(4)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec("INSERT INTO saved_recipes").
			WithArgs(userID, int64(4)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		saved, err := store.ToggleFavorite(context.Background(), userID, 4)
		require.NoError(t, err)
		assert.True(t, saved)
	})

	t.Run("removes when already saved", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM saved_recipes").
			WithArgs(userID, int64(4)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		saved, err := store.ToggleFavorite(context.Background(), userID, 4)
		require.NoError(t, err)
		assert.False(t, saved)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_MatchingTags(t *testing.T) {
	store, mock := setupRecipeStore(t)
	defer mock.Close()

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("WHERE dietary_tags @>").
		WithArgs([]byte(`["vegan-friendly"]`)).
		WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "title", "instructions", "dietary_tags", "created_at"}).
			AddRow(int64(2), "Chickpea Curry", "Cook it.", []byte(`["vegan-friendly","gluten-free"]`), createdAt))

	mock.ExpectQuery("SELECT ri.recipe_id, i.name, ri.measurement").
		WithArgs([]int64{2}).
		WillReturnRows(pgxmock.NewRows([]string{"recipe_id", "name", "measurement"}).
			AddRow(int64(2), "chickpeas", "1 can"))

	recipes, err := store.MatchingTags(context.Background(), []string{"vegan-friendly"})
	require.NoError(t, err)

	require.Len(t, recipes, 1)
	assert.Equal(t, "Chickpea Curry", recipes[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_Insert(t *testing.T) {
	store, mock := setupRecipeStore(t)
	defer mock.Close()

	req := &models.RecipeIngestionRequest{
		Title:        "Pesto Pasta",
		Instructions: "Blend and toss.",
		DietaryTags:  []string{"vegetarian"},
		Ingredients: []models.RecipeIngredient{
			{Name: "basil", Measurement: "1 cup"},
		},
	}

	t.Run("commits recipe and ingredient rows together", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO recipes").
			WithArgs("Pesto Pasta", "Blend and toss.", []byte(`["vegetarian"]`)).
			WillReturnRows(pgxmock.NewRows([]string{"recipe_id"}).AddRow(int64(7)))
		mock.ExpectQuery("INSERT INTO ingredients").
			WithArgs("basil").
			WillReturnRows(pgxmock.NewRows([]string{"ingredient_id"}).AddRow(int64(3)))
		mock.ExpectExec("INSERT INTO recipe_ingredients").
			WithArgs(int64(7), int64(3), "1 cup").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		recipeID, err := store.Insert(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, int64(7), recipeID)
	})

	t.Run("rolls back when an ingredient upsert fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO recipes").
			WithArgs("Pesto Pasta", "Blend and toss.", []byte(`["vegetarian"]`)).
			WillReturnRows(pgxmock.NewRows([]string{"recipe_id"}).AddRow(int64(8)))
		mock.ExpectQuery("INSERT INTO ingredients").
			WithArgs("basil").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := store.Insert(context.Background(), req)
		require.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeStore_FavoriteIngredients(t *testing.T) {
	store, mock := setupRecipeStore(t)
	defer mock.Close()

	userID := uuid.New()

	mock.ExpectQuery("FROM saved_recipes sr").
		WithArgs(userID, 5).
		WillReturnRows(pgxmock.NewRows([]string{"name", "uses"}).
			AddRow("garlic", 9).
			AddRow("olive oil", 7).
			AddRow("onion", 7))

	names, err := store.FavoriteIngredients(context.Background(), userID, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"garlic", "olive oil", "onion"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}
