// Package views holds the HTML templates of the web frontend.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	Home    = "home.html"
	Details = "details.html"
	Post    = "post.html"
	Login   = "login.html"
	Signup  = "signup.html"
	Profile = "profile.html"
	Edit    = "edit.html"
	Error   = "error.html"
)

// RatingOptions are the ratings offered by the comment form.
var RatingOptions = []float64{1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}

// MealTypeSelect feeds the meal type picker of the recipe forms.
type MealTypeSelect struct {
	MealTypes []models.MealType
	Selected  string
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatRating":  FormatRating,
		"ratingOptions": func() []float64 { return RatingOptions },
		"mealTypeName":  MealTypeName,
		"itoa":          func(id int64) string { return strconv.FormatInt(id, 10) },
		"join":          strings.Join,
	}
}

// Load parses the embedded templates.
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// FormatRating prints a rating with at most one decimal, or "Unrated".
func FormatRating(rating float64) string {
	if rating <= 0 {
		return "Unrated"
	}
	return strconv.FormatFloat(math.Round(rating*10)/10, 'f', -1, 64)
}

// MealTypeName looks up the name of id in types.
func MealTypeName(types []models.MealType, id int64) string {
	for _, mt := range types {
		if mt.ID == id {
			return mt.Name
		}
	}
	return ""
}

// Data starts the template data of a page: its title and the signed-in
// user, if any.
func Data(c *gin.Context, title string) gin.H {
	data := gin.H{"Title": title}
	if sess, ok := session.Lookup(c.Request.Context()); ok {
		data["User"] = sess.User()
	}
	return data
}

// RenderError renders the error page with message.
func RenderError(c *gin.Context, status int, message string) {
	data := Data(c, http.StatusText(status))
	data["Status"] = status
	data["Message"] = message
	c.HTML(status, Error, data)
}
