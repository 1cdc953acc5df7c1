package service

import (
	"context"

	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/types"
)

// IAuthService defines the authentication operations
type IAuthService interface {
	Authenticate(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, req types.SignupRequest) (string, error)
}

// IRecipeService defines the recipe operations
type IRecipeService interface {
	List(ctx context.Context) ([]models.Recipe, error)
	Get(ctx context.Context, id int64) (*models.RecipeDetail, error)
	Submit(ctx context.Context, draft types.RecipeSubmission, author Author) (int64, error)
	ListOwn(ctx context.Context) ([]models.Recipe, error)
	Edit(ctx context.Context, id int64, draft types.RecipeSubmission) error
	Activate(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

// ICommentService defines the comment operations
type ICommentService interface {
	List(ctx context.Context, recipeID int64) ([]models.Comment, error)
	Post(ctx context.Context, recipeID int64, body string, rating float64) (*models.Comment, error)
}

// IMealTypeService defines the meal type lookup
type IMealTypeService interface {
	List(ctx context.Context) ([]models.MealType, error)
}

var (
	_ IAuthService     = (*AuthService)(nil)
	_ IRecipeService   = (*RecipeService)(nil)
	_ ICommentService  = (*CommentService)(nil)
	_ IMealTypeService = (*MealTypeService)(nil)
)
