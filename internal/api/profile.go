package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/bitebox/frontend/internal/forms"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/middleware"
	"github.com/pageza/bitebox/frontend/internal/views"
)

type ProfileHandler struct {
	log *logger.Logger
}

func NewProfileHandler(log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{log: logger.OrNop(log).Named("profile")}
}

// RegisterRoutes expects router to require a session.
func (h *ProfileHandler) RegisterRoutes(router gin.IRouter) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.GET("/recipes/:id/edit", h.EditPage)
		profile.POST("/recipes/:id/edit", h.UpdateRecipe)
		profile.POST("/recipes/:id/activate", h.SetActive(true))
		profile.POST("/recipes/:id/deactivate", h.SetActive(false))
	}
}

// GetProfile shows the user and the recipes they posted.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	recipes, err := middleware.ServicesFrom(c).Recipes.ListOwn(c.Request.Context())
	if err != nil {
		fail(c, err, "We couldn't load your recipes right now. Please try again.")
		return
	}

	data := views.Data(c, "My Recipes")
	data["Recipes"] = recipes
	c.HTML(http.StatusOK, views.Profile, data)
}

// EditPage renders the edit form filled with the current recipe.
func (h *ProfileHandler) EditPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		views.RenderError(c, http.StatusNotFound, "We couldn't find that recipe.")
		return
	}

	detail, err := middleware.ServicesFrom(c).Recipes.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err, "We couldn't load this recipe right now. Please try again.")
		return
	}

	draft := forms.RecipeEdit{
		Name:        detail.Name,
		Description: detail.Description,
		Steps:       strings.Join(detail.Steps, "\n"),
	}
	if detail.MealTypeID > 0 {
		draft.MealTypeID = strconv.FormatInt(detail.MealTypeID, 10)
	}
	h.renderEdit(c, http.StatusOK, id, draft, nil, "")
}

// UpdateRecipe sends the changed fields of a recipe.
func (h *ProfileHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		views.RenderError(c, http.StatusNotFound, "We couldn't find that recipe.")
		return
	}

	var draft forms.RecipeEdit
	bindErr := c.ShouldBind(&draft)
	errs, ok := formErrors(draft.ValidateBound(bindErr))
	if !ok {
		unreadableForm(c, bindErr)
		return
	}

	image, err := formImage(c)
	if err != nil {
		errs = mergeErrors(errs, fieldErrors(err))
	}
	draft.Image = image

	if len(errs) > 0 {
		h.renderEdit(c, http.StatusUnprocessableEntity, id, draft, errs, "")
		return
	}

	if err := middleware.ServicesFrom(c).Recipes.Edit(c.Request.Context(), id, draft.Submission()); err != nil {
		_ = c.Error(err)
		if superseded(c) {
			return
		}
		h.renderEdit(c, http.StatusBadGateway, id, draft, nil,
			backendMessage(err, "We couldn't save your changes. Please try again."))
		return
	}

	c.Redirect(http.StatusSeeOther, "/profile")
}

// SetActive shows or hides one of the user's recipes.
func (h *ProfileHandler) SetActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			views.RenderError(c, http.StatusNotFound, "We couldn't find that recipe.")
			return
		}

		recipes := middleware.ServicesFrom(c).Recipes
		var err error
		if active {
			err = recipes.Activate(c.Request.Context(), id)
		} else {
			err = recipes.Deactivate(c.Request.Context(), id)
		}
		if err != nil {
			fail(c, err, "We couldn't update your recipe. Please try again.")
			return
		}

		h.log.Infow("recipe visibility changed", "recipe_id", id, "active", active)
		c.Redirect(http.StatusSeeOther, "/profile")
	}
}

func (h *ProfileHandler) renderEdit(c *gin.Context, status int, id int64, draft forms.RecipeEdit, errs map[string]string, message string) {
	mealTypes, err := middleware.ServicesFrom(c).MealTypes.List(c.Request.Context())
	if err != nil {
		h.log.Warnw("failed to load meal types", "error", err)
	}
	if superseded(c) {
		return
	}
	if errs == nil {
		errs = map[string]string{}
	}

	data := views.Data(c, "Edit recipe")
	data["RecipeID"] = id
	data["Form"] = draft
	data["Errors"] = errs
	data["Error"] = message
	data["MealTypeSelect"] = views.MealTypeSelect{MealTypes: mealTypes, Selected: draft.MealTypeID}
	c.HTML(status, views.Edit, data)
}
