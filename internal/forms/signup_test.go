package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUsernameKeepsPreviousValueOnRejection(t *testing.T) {
	form := &SignupForm{}
	require.NoError(t, form.SetUsername("Ana"))
	assert.Equal(t, "Ana", form.Username)

	err := form.SetUsername("Ana2")
	assert.Equal(t, MsgNumbersNotAllowed, fieldMessage(t, err, "user_name"))
	assert.Equal(t, "Ana", form.Username)

	err = form.SetUsername("Ana!")
	assert.Equal(t, MsgSpecialCharacters, fieldMessage(t, err, "user_name"))
	assert.Equal(t, "Ana", form.Username)
}

func TestSignupFormValidate(t *testing.T) {
	form := &SignupForm{Username: "Ana", Email: "ana@example.com", Password: "pw"}
	require.NoError(t, form.Validate())

	req := form.Request()
	assert.Equal(t, "Ana", req.Name)
	assert.Equal(t, "ana@example.com", req.Email)
	assert.Nil(t, req.Avatar)

	bad := &SignupForm{Email: "nope"}
	err := bad.Validate()
	assert.Equal(t, MsgRequired, fieldMessage(t, err, "user_name"))
	assert.Equal(t, MsgEmailInvalid, fieldMessage(t, err, "email"))
	assert.Equal(t, MsgRequired, fieldMessage(t, err, "password"))
}

func TestLoginFormValidate(t *testing.T) {
	assert.NoError(t, LoginForm{Email: "a@b.c", Password: "x"}.Validate())
	assert.Error(t, LoginForm{Email: " ", Password: "x"}.Validate())
	assert.Error(t, LoginForm{Email: "a@b.c"}.Validate())
}
