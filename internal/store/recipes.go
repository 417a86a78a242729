package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/cuisinecraft/engine/pkg/models"
)

// ErrRecipeNotFound is returned when a recipe id has no row.
var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeStore struct {
	db     Querier
	logger *logrus.Logger
}

func NewRecipeStore(db Querier, logger *logrus.Logger) *RecipeStore {
	return &RecipeStore{db: db, logger: logger}
}

// All returns every recipe with its ingredient list, ordered by recipe id so
// derived artifacts (similarity index rows) are deterministic.
func (s *RecipeStore) All(ctx context.Context) ([]models.Recipe, error) {
	query := `
		SELECT recipe_id, title, instructions, dietary_tags, created_at
		FROM recipes
		ORDER BY recipe_id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// ByID returns one recipe with its ingredients, or ErrRecipeNotFound.
func (s *RecipeStore) ByID(ctx context.Context, recipeID int64) (*models.Recipe, error) {
	query := `
		SELECT recipe_id, title, instructions, dietary_tags, created_at
		FROM recipes
		WHERE recipe_id = $1`

	var recipe models.Recipe
	var tags []byte
	err := s.db.QueryRow(ctx, query, recipeID).Scan(
		&recipe.ID, &recipe.Title, &recipe.Instructions, &tags, &recipe.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to query recipe %d: %w", recipeID, err)
	}

	if err := json.Unmarshal(tags, &recipe.DietaryTags); err != nil {
		return nil, fmt.Errorf("failed to decode dietary tags for recipe %d: %w", recipeID, err)
	}

	recipes := []models.Recipe{recipe}
	if err := s.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}

	return &recipes[0], nil
}

// ByIDs returns the subset of ids that exist, keyed by recipe id.
func (s *RecipeStore) ByIDs(ctx context.Context, recipeIDs []int64) (map[int64]models.Recipe, error) {
	if len(recipeIDs) == 0 {
		return map[int64]models.Recipe{}, nil
	}

	query := `
		SELECT recipe_id, title, instructions, dietary_tags, created_at
		FROM recipes
		WHERE recipe_id = ANY($1)
		ORDER BY recipe_id`

	rows, err := s.db.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes by ids: %w", err)
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}
	return byID, nil
}

// MatchingTags pushes conjunctive tag filtering into Postgres using jsonb
// containment. An empty tag set matches everything.
func (s *RecipeStore) MatchingTags(ctx context.Context, tags []string) ([]models.Recipe, error) {
	if len(tags) == 0 {
		return s.All(ctx)
	}

	required, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tag filter: %w", err)
	}

	query := `
		SELECT recipe_id, title, instructions, dietary_tags, created_at
		FROM recipes
		WHERE dietary_tags @> $1
		ORDER BY recipe_id`

	rows, err := s.db.Query(ctx, query, required)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes by tags: %w", err)
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// Search matches the query against title, instructions, and dietary tags.
func (s *RecipeStore) Search(ctx context.Context, query string) ([]models.Recipe, error) {
	sql := `
		SELECT recipe_id, title, instructions, dietary_tags, created_at
		FROM recipes
		WHERE title ILIKE '%' || $1 || '%'
			OR instructions ILIKE '%' || $1 || '%'
			OR dietary_tags @> to_jsonb(ARRAY[$1::text])
		ORDER BY recipe_id`

	rows, err := s.db.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		return nil, err
	}

	if err := s.attachIngredients(ctx, recipes); err != nil {
		return nil, err
	}

	return recipes, nil
}

// PopularRecipeIDs ranks recipes by total favorite count descending, ties by
// ascending recipe id.
func (s *RecipeStore) PopularRecipeIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT recipe_id, COUNT(*) AS favorites
		FROM saved_recipes
		GROUP BY recipe_id
		ORDER BY favorites DESC, recipe_id ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular recipes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		var favorites int
		if err := rows.Scan(&id, &favorites); err != nil {
			return nil, fmt.Errorf("failed to scan popular recipe row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FavoriteRecipeIDs returns a user's saved recipes, most recently saved first.
func (s *RecipeStore) FavoriteRecipeIDs(ctx context.Context, userID uuid.UUID) ([]int64, error) {
	query := `
		SELECT recipe_id
		FROM saved_recipes
		WHERE user_id = $1
		ORDER BY saved_recipe_id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite recipes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite recipe row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ToggleFavorite flips the saved state of a recipe for a user and reports the
// resulting state.
func (s *RecipeStore) ToggleFavorite(ctx context.Context, userID uuid.UUID, recipeID int64) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM saved_recipes WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to unfavorite recipe %d: %w", recipeID, err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO saved_recipes (user_id, recipe_id) VALUES ($1, $2)`,
		userID, recipeID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to favorite recipe %d: %w", recipeID, err)
	}
	return true, nil
}

// FavoriteIngredients returns the ingredient names occurring most often in a
// user's favorited recipes.
func (s *RecipeStore) FavoriteIngredients(ctx context.Context, userID uuid.UUID, topN int) ([]string, error) {
	query := `
		SELECT i.name, COUNT(*) AS uses
		FROM saved_recipes sr
		JOIN recipe_ingredients ri ON ri.recipe_id = sr.recipe_id
		JOIN ingredients i ON i.ingredient_id = ri.ingredient_id
		WHERE sr.user_id = $1
		GROUP BY i.name
		ORDER BY uses DESC, i.name ASC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, userID, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite ingredients: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		var uses int
		if err := rows.Scan(&name, &uses); err != nil {
			return nil, fmt.Errorf("failed to scan favorite ingredient row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Insert stores a new recipe together with its ingredient rows in a single
// transaction, so a failure mid-way never leaves an orphaned recipe with a
// partial ingredient list. Ingredient names are upserted so repeated
// ingestion shares canonical ingredient ids.
func (s *RecipeStore) Insert(ctx context.Context, req *models.RecipeIngestionRequest) (int64, error) {
	tags := req.DietaryTags
	if tags == nil {
		tags = []string{}
	}
	encodedTags, err := json.Marshal(tags)
	if err != nil {
		return 0, fmt.Errorf("failed to encode dietary tags: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin recipe insert: %w", err)
	}
	defer tx.Rollback(ctx)

	var recipeID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO recipes (title, instructions, dietary_tags) VALUES ($1, $2, $3) RETURNING recipe_id`,
		req.Title, req.Instructions, encodedTags,
	).Scan(&recipeID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}

	for _, ingredient := range req.Ingredients {
		var ingredientID int64
		err = tx.QueryRow(ctx,
			`INSERT INTO ingredients (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING ingredient_id`,
			ingredient.Name,
		).Scan(&ingredientID)
		if err != nil {
			return 0, fmt.Errorf("failed to upsert ingredient %q: %w", ingredient.Name, err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, measurement)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (recipe_id, ingredient_id) DO NOTHING`,
			recipeID, ingredientID, ingredient.Measurement,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to link ingredient %q: %w", ingredient.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit recipe insert: %w", err)
	}
	return recipeID, nil
}

func (s *RecipeStore) attachIngredients(ctx context.Context, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	for i, recipe := range recipes {
		ids[i] = recipe.ID
	}

	query := `
		SELECT ri.recipe_id, i.name, ri.measurement
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.ingredient_id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.recipe_id, i.name`

	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer rows.Close()

	byRecipe := make(map[int64][]models.RecipeIngredient)
	for rows.Next() {
		var recipeID int64
		var ingredient models.RecipeIngredient
		if err := rows.Scan(&recipeID, &ingredient.Name, &ingredient.Measurement); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient row: %w", err)
		}
		byRecipe[recipeID] = append(byRecipe[recipeID], ingredient)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range recipes {
		recipes[i].Ingredients = byRecipe[recipes[i].ID]
	}
	return nil
}

func scanRecipes(rows pgx.Rows) ([]models.Recipe, error) {
	var recipes []models.Recipe
	for rows.Next() {
		var recipe models.Recipe
		var tags []byte
		if err := rows.Scan(&recipe.ID, &recipe.Title, &recipe.Instructions, &tags, &recipe.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		if err := json.Unmarshal(tags, &recipe.DietaryTags); err != nil {
			return nil, fmt.Errorf("failed to decode dietary tags for recipe %d: %w", recipe.ID, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}
