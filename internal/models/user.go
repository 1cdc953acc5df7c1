package models

import (
	"fmt"
	"hash/fnv"
)

// stockAvatarBase serves placeholder portraits for users without a photo.
const stockAvatarBase = "https://avatar.iran.liara.run/public/"

// User is the signed-in identity as reconstructed from the session token.
// It is display data only and never fetched from the backend.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"url_photo,omitempty"`
}

// AvatarURL returns the user's photo, or a stock avatar picked
// deterministically from the user's id and name.
func (u User) AvatarURL() string {
	if u.PhotoURL != "" {
		return u.PhotoURL
	}
	h := fnv.New32a()
	h.Write([]byte(u.ID + "/" + u.Name))
	return fmt.Sprintf("%s%d", stockAvatarBase, h.Sum32()%100)
}

// DisplayName falls back to a neutral label when the token carried no name.
func (u User) DisplayName() string {
	if u.Name == "" {
		return "BiteBox cook"
	}
	return u.Name
}
