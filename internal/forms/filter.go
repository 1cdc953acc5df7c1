package forms

import (
	"math/rand"
	"strings"

	"github.com/pageza/bitebox/frontend/internal/models"
)

// FilterRecipes keeps recipes whose name contains query, ignoring case,
// and, when mealTypeID is positive, whose meal type matches exactly.
func FilterRecipes(recipes []models.Recipe, query string, mealTypeID int64) []models.Recipe {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		if mealTypeID > 0 && r.MealTypeID != mealTypeID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PickLucky returns the id of a random recipe, or false for an empty list.
func PickLucky(recipes []models.Recipe, rnd *rand.Rand) (int64, bool) {
	if len(recipes) == 0 {
		return 0, false
	}
	var i int
	if rnd != nil {
		i = rnd.Intn(len(recipes))
	} else {
		i = rand.Intn(len(recipes))
	}
	return recipes[i].ID, true
}
