package models

// Comment is a rated remark left on a recipe.
type Comment struct {
	ID       int64   `json:"id"`
	UserName string  `json:"user_name"`
	RecipeID int64   `json:"recipe_id"`
	Body     string  `json:"comment"`
	Rating   float64 `json:"rating"`
}
