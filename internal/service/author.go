package service

import "github.com/pageza/bitebox/frontend/internal/models"

// Author identifies who submits a recipe: a named guest or a signed-in user.
type Author interface {
	isAuthor()
}

// GuestAuthor posts without a session and signs with a free-text name.
type GuestAuthor struct {
	Name string
}

// UserAuthor posts under the current session's identity.
type UserAuthor struct {
	UserID string
}

func (GuestAuthor) isAuthor() {}
func (UserAuthor) isAuthor()  {}

// AuthorFor picks the author variant for the current visitor.
func AuthorFor(user *models.User, guestName string) Author {
	if user != nil {
		return UserAuthor{UserID: user.ID}
	}
	return GuestAuthor{Name: guestName}
}
