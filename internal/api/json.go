package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/bitebox/frontend/internal/forms"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/middleware"
	"github.com/pageza/bitebox/frontend/internal/models"
)

// SessionResponse describes the visitor's session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
	AvatarURL     string       `json:"avatar_url,omitempty"`
}

// RecipesResponse is the filtered recipe list.
type RecipesResponse struct {
	Recipes []models.Recipe `json:"recipes"`
}

// JSONHandler serves the read-only JSON endpoints for scripts and widgets.
type JSONHandler struct {
	log *logger.Logger
}

func NewJSONHandler(log *logger.Logger) *JSONHandler {
	return &JSONHandler{log: logger.OrNop(log).Named("json")}
}

func (h *JSONHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/session", h.GetSession)
	router.GET("/recipes", h.ListRecipes)
}

func (h *JSONHandler) GetSession(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	resp := SessionResponse{Authenticated: sess.IsAuthenticated(), User: sess.User()}
	if resp.User != nil {
		resp.AvatarURL = resp.User.AvatarURL()
	}
	c.JSON(http.StatusOK, resp)
}

// ListRecipes returns recipes filtered by q and meal_type. It uses the
// anonymous client so a stale token never turns into a redirect.
func (h *JSONHandler) ListRecipes(c *gin.Context) {
	mealType, _ := strconv.ParseInt(c.Query("meal_type"), 10, 64)

	recipes, err := middleware.AnonymousServices(c).Recipes.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, middleware.ErrorResponse{Error: "failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, RecipesResponse{Recipes: forms.FilterRecipes(recipes, c.Query("q"), mealType)})
}
