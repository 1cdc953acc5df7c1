package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/bitebox/frontend/internal/forms"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/middleware"
	"github.com/pageza/bitebox/frontend/internal/models"
	"github.com/pageza/bitebox/frontend/internal/service"
	"github.com/pageza/bitebox/frontend/internal/views"
)

type RecipeHandler struct {
	log    *logger.Logger
	limits Limits
}

func NewRecipeHandler(log *logger.Logger, limits Limits) *RecipeHandler {
	return &RecipeHandler{
		log:    logger.OrNop(log).Named("recipes"),
		limits: limits,
	}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.ListRecipes)
	router.GET("/recipes", h.ListRecipes)
	router.GET("/lucky", h.Lucky)
	router.GET("/details/:id", h.GetRecipe)
	router.GET("/post", h.NewRecipe)
	router.POST("/post", h.limits.Post.Middleware(), h.CreateRecipe)
}

// RegisterProtectedRoutes registers the routes that need a signed-in user.
func (h *RecipeHandler) RegisterProtectedRoutes(router gin.IRouter) {
	router.POST("/details/:id/comments", h.limits.Comment.Middleware(), h.PostComment)
}

// ListRecipes renders the recipe list filtered by the q and meal_type
// query parameters.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	svc := middleware.ServicesFrom(c)
	query := c.Query("q")
	mealType, _ := strconv.ParseInt(c.Query("meal_type"), 10, 64)

	var recipes []models.Recipe
	var mealTypes []models.MealType

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		list, err := svc.Recipes.List(ctx)
		recipes = list
		return err
	})
	g.Go(func() error {
		mealTypes = h.mealTypes(ctx, svc)
		return nil
	})
	if err := g.Wait(); err != nil {
		fail(c, err, "We couldn't load recipes right now. Please try again.")
		return
	}
	if superseded(c) {
		return
	}

	data := views.Data(c, "Recipes")
	data["Query"] = query
	data["MealType"] = mealType
	data["MealTypes"] = mealTypes
	data["Recipes"] = forms.FilterRecipes(recipes, query, mealType)
	c.HTML(http.StatusOK, views.Home, data)
}

// Lucky redirects to a random recipe, or home when there are none.
func (h *RecipeHandler) Lucky(c *gin.Context) {
	recipes, err := middleware.ServicesFrom(c).Recipes.List(c.Request.Context())
	if err != nil {
		fail(c, err, "We couldn't load recipes right now. Please try again.")
		return
	}

	id, ok := forms.PickLucky(recipes, nil)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.Redirect(http.StatusSeeOther, "/details/"+strconv.FormatInt(id, 10))
}

// GetRecipe renders a recipe with its comments.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		views.RenderError(c, http.StatusNotFound, "We couldn't find that recipe.")
		return
	}
	h.renderDetails(c, http.StatusOK, id, nil)
}

// renderDetails fetches the recipe and its comments concurrently. A
// failing comment list shows as no comments.
func (h *RecipeHandler) renderDetails(c *gin.Context, status int, id int64, extra gin.H) {
	svc := middleware.ServicesFrom(c)

	var detail *models.RecipeDetail
	var comments []models.Comment

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		d, err := svc.Recipes.Get(ctx, id)
		detail = d
		return err
	})
	g.Go(func() error {
		list, err := svc.Comments.List(ctx, id)
		if err != nil {
			h.log.Warnw("failed to load comments", "recipe_id", id, "error", err)
			return nil
		}
		comments = list
		return nil
	})
	if err := g.Wait(); err != nil {
		fail(c, err, "We couldn't load this recipe right now. Please try again.")
		return
	}
	if superseded(c) {
		return
	}

	data := views.Data(c, detail.Name)
	data["Recipe"] = detail
	data["Comments"] = comments
	data["CommentDraft"] = ""
	data["CommentRating"] = float64(0)
	for k, v := range extra {
		data[k] = v
	}
	c.HTML(status, views.Details, data)
}

// PostComment validates the comment, posts it and redirects back to the
// recipe, which then shows the refreshed list.
func (h *RecipeHandler) PostComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		views.RenderError(c, http.StatusNotFound, "We couldn't find that recipe.")
		return
	}

	var form forms.CommentForm
	bindErr := c.ShouldBind(&form)
	body, rating := form.Comment, form.RatingValue()
	redisplay := func(message string) {
		h.renderDetails(c, http.StatusUnprocessableEntity, id, gin.H{
			"CommentError":  message,
			"CommentDraft":  body,
			"CommentRating": rating,
		})
	}

	if err := form.ValidateBound(bindErr); err != nil {
		errs, ok := formErrors(err)
		if !ok {
			unreadableForm(c, err)
			return
		}
		if msg, ok := errs["comment"]; ok {
			redisplay(msg)
		} else {
			redisplay(errs["rating"])
		}
		return
	}

	if _, err := middleware.ServicesFrom(c).Comments.Post(c.Request.Context(), id, body, rating); err != nil {
		_ = c.Error(err)
		if superseded(c) {
			return
		}
		redisplay(backendMessage(err, "We couldn't post your comment. Please try again."))
		return
	}

	c.Redirect(http.StatusSeeOther, "/details/"+strconv.FormatInt(id, 10))
}

// NewRecipe renders the empty recipe form.
func (h *RecipeHandler) NewRecipe(c *gin.Context) {
	h.renderPostForm(c, http.StatusOK, forms.RecipeDraft{}, nil, "")
}

// CreateRecipe validates and submits a recipe, as a guest or as the
// signed-in user.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	user := sess.User()

	var draft forms.RecipeDraft
	bindErr := c.ShouldBind(&draft)
	errs, ok := formErrors(draft.ValidateBound(bindErr, user == nil))
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
		h.renderPostForm(c, http.StatusUnprocessableEntity, draft, errs, "")
		return
	}

	author := service.AuthorFor(user, draft.GuestName)
	id, err := middleware.ServicesFrom(c).Recipes.Submit(c.Request.Context(), draft.Submission(), author)
	if err != nil {
		_ = c.Error(err)
		if superseded(c) {
			return
		}
		if errors.Is(err, service.ErrNotAuthenticated) {
			c.Redirect(http.StatusSeeOther, middleware.DefaultLoginPath)
			return
		}
		h.renderPostForm(c, http.StatusBadGateway, draft, nil,
			backendMessage(err, "We couldn't post your recipe. Please try again."))
		return
	}

	h.log.Infow("recipe posted", "recipe_id", id, "guest", user == nil)
	if id > 0 {
		c.Redirect(http.StatusSeeOther, "/details/"+strconv.FormatInt(id, 10))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *RecipeHandler) renderPostForm(c *gin.Context, status int, draft forms.RecipeDraft, errs map[string]string, message string) {
	mealTypes := h.mealTypes(c.Request.Context(), middleware.ServicesFrom(c))
	if superseded(c) {
		return
	}
	if errs == nil {
		errs = map[string]string{}
	}

	data := views.Data(c, "Post a recipe")
	data["Form"] = draft
	data["Errors"] = errs
	data["Error"] = message
	data["MealTypeSelect"] = views.MealTypeSelect{MealTypes: mealTypes, Selected: draft.MealTypeID}
	c.HTML(status, views.Post, data)
}

// mealTypes loads the meal type vocabulary. Failures leave it empty.
func (h *RecipeHandler) mealTypes(ctx context.Context, svc *service.Services) []models.MealType {
	list, err := svc.MealTypes.List(ctx)
	if err != nil {
		h.log.Warnw("failed to load meal types", "error", err)
		return nil
	}
	return list
}
