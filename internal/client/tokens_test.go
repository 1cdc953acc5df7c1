package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/mocks"
)

func TestTokenSourceError(t *testing.T) {
	tokens := new(mocks.MockTokenSource)
	tokens.On("Token", mock.Anything).Return("", errors.New("store down"))

	c := client.New("http://127.0.0.1:1", client.Options{Tokens: tokens})
	err := c.GetJSON(context.Background(), "/recipes", nil)
	assert.ErrorContains(t, err, "store down")
	assert.False(t, c.Authenticated(context.Background()))
	tokens.AssertExpectations(t)
}
