package models

import "strings"

// AnonymousCreator is shown for recipes without a known creator.
const AnonymousCreator = "Anonymous"

// Recipe is the summary shape used by lists and cards.
type Recipe struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MealTypeID  int64   `json:"meal_type_id"`
	ImageURL    string  `json:"img_url"`
	Rating      float64 `json:"rating"`
}

// Rated reports whether the recipe has received any rating.
func (r Recipe) Rated() bool {
	return r.Rating > 0
}

// RecipeDetail extends a summary with its creator and ordered steps.
type RecipeDetail struct {
	Recipe
	CreatorName *string  `json:"creator_name"`
	Steps       []string `json:"steps"`
}

// Creator returns the creator's display name, or AnonymousCreator.
func (d RecipeDetail) Creator() string {
	if d.CreatorName == nil || strings.TrimSpace(*d.CreatorName) == "" {
		return AnonymousCreator
	}
	return *d.CreatorName
}

// MealType is a category used to filter recipes.
type MealType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
