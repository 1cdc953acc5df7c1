package types

import "github.com/pageza/bitebox/frontend/internal/models"

// RecipeRow is a recipe as the backend sends it. Numeric fields may arrive
// as strings and two fields have older aliases still emitted by some
// endpoints; the newer names take precedence.
type RecipeRow struct {
	ID          FlexNumber `json:"id"`
	Name        string     `json:"name_recipe"`
	LegacyName  string     `json:"recipe_name"`
	Description string     `json:"description"`
	MealTypeID  FlexNumber `json:"meal_type_id"`
	ImgURL      string     `json:"img_url"`
	LegacyImage string     `json:"image"`
	Rating      FlexNumber `json:"rating"`
}

// ToModel converts the row into a models.Recipe.
func (r RecipeRow) ToModel() models.Recipe {
	name := r.Name
	if name == "" {
		name = r.LegacyName
	}
	img := r.ImgURL
	if img == "" {
		img = r.LegacyImage
	}
	rating := r.Rating.Float()
	if rating < 0 {
		rating = 0
	}
	return models.Recipe{
		ID:          r.ID.Int(),
		Name:        name,
		Description: r.Description,
		MealTypeID:  r.MealTypeID.Int(),
		ImageURL:    img,
		Rating:      rating,
	}
}

// RecipeDetailRow is the single-recipe payload.
type RecipeDetailRow struct {
	RecipeRow
	CreatorName *string   `json:"creator_name"`
	Steps       FlexSteps `json:"steps"`
}

// ToModel converts the row into a models.RecipeDetail.
func (r RecipeDetailRow) ToModel() models.RecipeDetail {
	steps := []string(r.Steps)
	if steps == nil {
		steps = []string{}
	}
	return models.RecipeDetail{
		Recipe:      r.RecipeRow.ToModel(),
		CreatorName: r.CreatorName,
		Steps:       steps,
	}
}

// CommentRow is a comment as the backend sends it.
type CommentRow struct {
	ID       FlexNumber `json:"id"`
	UserName string     `json:"user_name"`
	RecipeID FlexNumber `json:"recipe_id"`
	Comment  string     `json:"comment"`
	Rating   FlexNumber `json:"rating"`
}

// ToModel converts the row into a models.Comment.
func (r CommentRow) ToModel() models.Comment {
	return models.Comment{
		ID:       r.ID.Int(),
		UserName: r.UserName,
		RecipeID: r.RecipeID.Int(),
		Body:     r.Comment,
		Rating:   r.Rating.Float(),
	}
}

// MealTypeRow is a meal type as the backend sends it.
type MealTypeRow struct {
	ID   FlexNumber `json:"id"`
	Name string     `json:"name"`
}

// ToModel converts the row into a models.MealType.
func (r MealTypeRow) ToModel() models.MealType {
	return models.MealType{ID: r.ID.Int(), Name: r.Name}
}

// NormalizeRecipes converts backend rows into recipes, keeping order.
func NormalizeRecipes(rows []RecipeRow) []models.Recipe {
	recipes := make([]models.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, row.ToModel())
	}
	return recipes
}

// NormalizeComments converts backend rows into comments, keeping order.
func NormalizeComments(rows []CommentRow) []models.Comment {
	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.ToModel())
	}
	return comments
}

// NormalizeMealTypes converts backend rows into meal types, keeping order.
func NormalizeMealTypes(rows []MealTypeRow) []models.MealType {
	mealTypes := make([]models.MealType, 0, len(rows))
	for _, row := range rows {
		mealTypes = append(mealTypes, row.ToModel())
	}
	return mealTypes
}
