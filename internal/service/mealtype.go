package service

import (
	"context"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/types"
)

// MealTypeService serves the meal type vocabulary
type MealTypeService struct {
	api *client.Client
}

// NewMealTypeService creates a new MealTypeService instance
func NewMealTypeService(api *client.Client) *MealTypeService {
	return &MealTypeService{api: api}
}

// List returns every meal type.
func (s *MealTypeService) List(ctx context.Context) ([]models.MealType, error) {
	var rows []types.MealTypeRow
	if err := s.api.GetJSON(ctx, "/mealtypes", &rows); err != nil {
		return nil, err
	}
	return types.NormalizeMealTypes(rows), nil
}
