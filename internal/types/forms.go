package types

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

// fieldName reports validation errors under the name the field has in the
// submitted form, or in JSON when it has no form name.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `form:"email" binding:"required,notblank"`
	Password string `form:"password" binding:"required"`
}

// SignupInput is the sign-up form. The avatar comes from the file part and
// is never bound.
type SignupInput struct {
	Username string  `form:"user_name" binding:"required,notblank"`
	Email    string  `form:"email" binding:"required,email"`
	Password string  `form:"password" binding:"required"`
	Avatar   *Upload `form:"-" binding:"-"`
}

// RecipeInput is the new recipe form. The guest name is only required from
// guests, which binding cannot tell.
type RecipeInput struct {
	Name        string  `form:"name" binding:"required,notblank"`
	Description string  `form:"description" binding:"required,notblank"`
	Steps       string  `form:"steps" binding:"required,notblank"`
	MealTypeID  string  `form:"meal_type_id" binding:"required,number"`
	GuestName   string  `form:"guest_name"`
	Image       *Upload `form:"-" binding:"-"`
}

// RecipeEditInput is the edit form, where every field is optional.
type RecipeEditInput struct {
	Name        string  `form:"name"`
	Description string  `form:"description"`
	Steps       string  `form:"steps"`
	MealTypeID  string  `form:"meal_type_id" binding:"omitempty,number"`
	Image       *Upload `form:"-" binding:"-"`
}

// CommentInput is the comment form. The rating stays text so that garbage
// input reaches the range check instead of failing the bind.
type CommentInput struct {
	Comment string `form:"comment" binding:"required,notblank"`
	Rating  string `form:"rating"`
}
