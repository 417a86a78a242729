package models

import "time"

type Recipe struct {
	ID           int64              `json:"recipe_id" db:"recipe_id"`
	Title        string             `json:"title" db:"title" validate:"required,min=1,max=200"`
	Instructions string             `json:"instructions" db:"instructions"`
	DietaryTags  []string           `json:"dietary_tags" db:"dietary_tags"`
	Ingredients  []RecipeIngredient `json:"ingredients,omitempty"`
	CreatedAt    time.Time          `json:"created_at,omitempty" db:"created_at"`
}

type RecipeIngredient struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Measurement string `json:"amount,omitempty"`
}

// DiversityKey is the attribute used to spread recommendation lists across
// recipe categories. Untagged recipes share the "none" bucket.
func (r *Recipe) DiversityKey() string {
	if len(r.DietaryTags) == 0 {
		return "none"
	}
	return r.DietaryTags[0]
}

type RecipeIngestionRequest struct {
	Title        string             `json:"title" validate:"required,min=1,max=200"`
	Instructions string             `json:"instructions" validate:"required"`
	DietaryTags  []string           `json:"dietary_tags,omitempty"`
	Ingredients  []RecipeIngredient `json:"ingredients" validate:"required,min=1,dive"`
}

// DietaryChoices is the fixed set of restriction types a user may select.
// Recipes carry any subset of these as dietary tags.
var DietaryChoices = []DietaryChoice{
	{ID: "vegetarian", Name: "Vegetarian"},
	{ID: "vegan-friendly", Name: "Vegan-Friendly"},
	{ID: "gluten-free", Name: "Gluten-Free"},
	{ID: "halal", Name: "Halal"},
	{ID: "seafood-free", Name: "Seafood-Free"},
	{ID: "dairy-free", Name: "Dairy-Free"},
	{ID: "peanut-free", Name: "Peanut-Free"},
	{ID: "tree-nut-free", Name: "Tree-Nut-Free"},
	{ID: "wheat-free", Name: "Wheat-Free"},
	{ID: "sesame-free", Name: "Sesame-Free"},
	{ID: "soy-free", Name: "Soy-Free"},
	{ID: "sulphite-free", Name: "Sulphite-Free"},
	{ID: "egg-free", Name: "Egg-Free"},
}

type DietaryChoice struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsSelected bool   `json:"isSelected"`
}

type PreferenceUpdateRequest struct {
	Preferences []string `json:"preferences" validate:"dive,min=1,max=100"`
}
