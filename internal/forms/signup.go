package forms

import (
	"strings"

	"github.com/pageza/bitebox/frontend/internal/types"
)

// SignupForm holds the sign-up draft between attempts.
type SignupForm types.SignupInput

// SetUsername stores name only when it passes ValidateUsername; on
// rejection the previous value stays and the error is returned.
func (f *SignupForm) SetUsername(name string) error {
	if err := ValidateUsername(name); err != nil {
		return err
	}
	f.Username = name
	return nil
}

// Validate checks the complete draft.
func (f *SignupForm) Validate() error {
	return f.ValidateBound(checkRules(f))
}

// ValidateBound completes the result of binding the form with the
// username rule.
func (f *SignupForm) ValidateBound(bindErr error) error {
	errs, err := bound(bindErr)
	if err != nil {
		return err
	}
	if _, rejected := errs.ByField()["user_name"]; !rejected {
		if err := ValidateUsername(f.Username); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}
	return errs.orNil()
}

// Request converts a validated draft into the registration payload.
func (f *SignupForm) Request() types.SignupRequest {
	return types.SignupRequest{
		Name:     strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Avatar:   f.Avatar,
	}
}

// LoginForm holds the login draft.
type LoginForm types.LoginInput

// Validate checks that both credentials are present.
func (f LoginForm) Validate() error {
	if err := checkRules(f); err != nil {
		return ValidationError{Field: "email", Message: MsgCredentialsMissing}
	}
	return nil
}
