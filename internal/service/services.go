// Package service maps BiteBox operations onto backend endpoints and
// normalizes every payload into internal/models types.
package service

import (
	"errors"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/types"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session
	// when none is held. No request is sent.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrMissingToken is returned when login succeeds without a token.
	ErrMissingToken = errors.New("backend returned no token")
)

// Services bundles the resource APIs. Handlers only see the interfaces,
// so tests can swap any of them.
type Services struct {
	Auth      IAuthService
	Recipes   IRecipeService
	Comments  ICommentService
	MealTypes IMealTypeService
}

// New wires every resource API onto api.
func New(api *client.Client) *Services {
	return &Services{
		Auth:      NewAuthService(api),
		Recipes:   NewRecipeService(api),
		Comments:  NewCommentService(api),
		MealTypes: NewMealTypeService(api),
	}
}

func attachUpload(form *client.Multipart, field string, upload *types.Upload) {
	if upload == nil {
		return
	}
	form.File(field, upload.Filename, upload.ContentType, upload.Data)
}
