package forms

import (
	"strconv"
	"strings"

	"github.com/pageza/bitebox/frontend/internal/types"
)

// RecipeDraft is the recipe form as typed by the user.
type RecipeDraft types.RecipeInput

// MealType parses the selected meal type; 0 when none or invalid.
func (d RecipeDraft) MealType() int64 {
	return parseMealType(d.MealTypeID)
}

// Validate checks a new recipe. Guests must sign it with a name.
func (d RecipeDraft) Validate(guest bool) error {
	return d.ValidateBound(checkRules(d), guest)
}

// ValidateBound completes the result of binding the draft with the rules
// binding cannot express: a positive meal type and the guest signature.
func (d RecipeDraft) ValidateBound(bindErr error, guest bool) error {
	errs, err := bound(bindErr)
	if err != nil {
		return err
	}
	if _, rejected := errs.ByField()["meal_type_id"]; !rejected && d.MealType() <= 0 {
		errs = append(errs, ValidationError{Field: "meal_type_id", Message: MsgMealTypeRequired})
	}
	if guest && strings.TrimSpace(d.GuestName) == "" {
		errs = append(errs, ValidationError{Field: "guest_name", Message: MsgGuestNameRequired})
	}
	return errs.orNil()
}

// Submission converts the draft into the payload sent to the backend.
func (d RecipeDraft) Submission() types.RecipeSubmission {
	return types.RecipeSubmission{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Steps:       strings.TrimSpace(d.Steps),
		MealTypeID:  d.MealType(),
		Image:       d.Image,
	}
}

// RecipeEdit is the edit form. Every field is optional but a meal type,
// when given, must be valid.
type RecipeEdit types.RecipeEditInput

// MealType parses the selected meal type; 0 when none or invalid.
func (e RecipeEdit) MealType() int64 {
	return parseMealType(e.MealTypeID)
}

// Validate checks an edit.
func (e RecipeEdit) Validate() error {
	return e.ValidateBound(checkRules(e))
}

// ValidateBound completes the result of binding the edit form.
func (e RecipeEdit) ValidateBound(bindErr error) error {
	errs, err := bound(bindErr)
	if err != nil {
		return err
	}
	_, rejected := errs.ByField()["meal_type_id"]
	if !rejected && strings.TrimSpace(e.MealTypeID) != "" && e.MealType() <= 0 {
		errs = append(errs, ValidationError{Field: "meal_type_id", Message: MsgMealTypeRequired})
	}
	return errs.orNil()
}

// Submission converts the edit into the payload sent to the backend.
func (e RecipeEdit) Submission() types.RecipeSubmission {
	return types.RecipeSubmission{
		Name:        strings.TrimSpace(e.Name),
		Description: strings.TrimSpace(e.Description),
		Steps:       strings.TrimSpace(e.Steps),
		MealTypeID:  e.MealType(),
		Image:       e.Image,
	}
}

func parseMealType(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
