package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/service"
	"github.com/pageza/bitebox/frontend/internal/types"
)

// MockRecipeService is a mock implementation of service.IRecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) List(ctx context.Context) ([]models.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Get(ctx context.Context, id int64) (*models.RecipeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecipeDetail), args.Error(1)
}

func (m *MockRecipeService) Submit(ctx context.Context, draft types.RecipeSubmission, author service.Author) (int64, error) {
	args := m.Called(ctx, draft, author)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecipeService) ListOwn(ctx context.Context) ([]models.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Edit(ctx context.Context, id int64, draft types.RecipeSubmission) error {
	args := m.Called(ctx, id, draft)
	return args.Error(0)
}

func (m *MockRecipeService) Activate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeService) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCommentService is a mock implementation of service.ICommentService
type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, recipeID int64) ([]models.Comment, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentService) Post(ctx context.Context, recipeID int64, body string, rating float64) (*models.Comment, error) {
	args := m.Called(ctx, recipeID, body, rating)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

// MockMealTypeService is a mock implementation of service.IMealTypeService
type MockMealTypeService struct {
	mock.Mock
}

func (m *MockMealTypeService) List(ctx context.Context) ([]models.MealType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MealType), args.Error(1)
}

var (
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.ICommentService  = (*MockCommentService)(nil)
	_ service.IMealTypeService = (*MockMealTypeService)(nil)
)
