package forms

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FromBinding turns the validator errors returned by gin binding into
// field messages. Any other error, such as an unreadable body, is returned
// unchanged.
func FromBinding(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "email":
		return MsgEmailInvalid
	case fe.Field() == "meal_type_id":
		return MsgMealTypeRequired
	case fe.Field() == "comment":
		return MsgCommentRequired
	default:
		return MsgRequired
	}
}

// bound splits the result of a bind into rejected fields and a hard error.
func bound(bindErr error) (ValidationErrors, error) {
	err := FromBinding(bindErr)
	if err == nil {
		return nil, nil
	}
	var errs ValidationErrors
	if errors.As(err, &errs) {
		return errs, nil
	}
	return nil, err
}

// checkRules applies the binding rules of form outside a request.
func checkRules(form any) error {
	return binding.Validator.ValidateStruct(form)
}
