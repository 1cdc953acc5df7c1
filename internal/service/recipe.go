package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	api *client.Client
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(api *client.Client) *RecipeService {
	return &RecipeService{api: api}
}

// List returns every public recipe.
func (s *RecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	var rows []types.RecipeRow
	if err := s.api.GetJSON(ctx, "/recipes", &rows); err != nil {
		return nil, err
	}
	return types.NormalizeRecipes(rows), nil
}

// Get returns one recipe with its steps. Unknown ids yield an error
// matching client.ErrNotFound.
func (s *RecipeService) Get(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	var row types.RecipeDetailRow
	if err := s.api.GetJSON(ctx, "/recipes/"+strconv.FormatInt(id, 10), &row); err != nil {
		return nil, err
	}
	detail := row.ToModel()
	return &detail, nil
}

// Submit posts a new recipe. Guests go to /recipes/post with their name,
// signed-in users to /recipes/userPost. The returned id is 0 when the
// backend does not report one.
func (s *RecipeService) Submit(ctx context.Context, draft types.RecipeSubmission, author Author) (int64, error) {
	form := client.NewMultipart().
		Field("name", draft.Name).
		Field("description", draft.Description).
		Field("steps", draft.Steps).
		Field("meal_type_id", strconv.FormatInt(draft.MealTypeID, 10))

	var path string
	switch a := author.(type) {
	case GuestAuthor:
		path = "/recipes/post"
		form.Field("guest_name", a.Name)
	case UserAuthor:
		if !s.api.Authenticated(ctx) {
			return 0, ErrNotAuthenticated
		}
		path = "/recipes/userPost"
	default:
		return 0, fmt.Errorf("unknown author %T", author)
	}
	attachUpload(form, "image", draft.Image)

	var created types.CreatedResponse
	if err := s.api.PostMultipart(ctx, path, form, &created); err != nil {
		return 0, err
	}
	return created.ID.Int(), nil
}

// ListOwn returns the recipes of the signed-in user, active or not.
func (s *RecipeService) ListOwn(ctx context.Context) ([]models.Recipe, error) {
	if !s.api.Authenticated(ctx) {
		return nil, ErrNotAuthenticated
	}
	var rows []types.RecipeRow
	if err := s.api.GetJSON(ctx, "/users", &rows); err != nil {
		return nil, err
	}
	return types.NormalizeRecipes(rows), nil
}

// Edit updates the non-empty fields of one of the user's recipes.
func (s *RecipeService) Edit(ctx context.Context, id int64, draft types.RecipeSubmission) error {
	if !s.api.Authenticated(ctx) {
		return ErrNotAuthenticated
	}
	form := client.NewMultipart()
	if draft.Name != "" {
		form.Field("name_recipe", draft.Name)
	}
	if draft.Description != "" {
		form.Field("description", draft.Description)
	}
	if draft.Steps != "" {
		form.Field("steps", draft.Steps)
	}
	if draft.MealTypeID > 0 {
		form.Field("meal_type_id", strconv.FormatInt(draft.MealTypeID, 10))
	}
	attachUpload(form, "image", draft.Image)

	return s.api.PatchMultipart(ctx, "/users/edit/"+strconv.FormatInt(id, 10), form, nil)
}

// Activate makes one of the user's recipes public again.
func (s *RecipeService) Activate(ctx context.Context, id int64) error {
	return s.toggle(ctx, "activate", id)
}

// Deactivate hides one of the user's recipes from the public list.
func (s *RecipeService) Deactivate(ctx context.Context, id int64) error {
	return s.toggle(ctx, "deactivate", id)
}

func (s *RecipeService) toggle(ctx context.Context, action string, id int64) error {
	if !s.api.Authenticated(ctx) {
		return ErrNotAuthenticated
	}
	return s.api.Patch(ctx, "/users/"+action+"/"+strconv.FormatInt(id, 10))
}
