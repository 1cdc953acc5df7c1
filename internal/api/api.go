package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/forms"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/middleware"
	"github.com/pageza/bitebox/frontend/internal/service"
	"github.com/pageza/bitebox/frontend/internal/types"
	"github.com/pageza/bitebox/frontend/internal/views"
)

// Limits are the rate limiters applied to form submissions. Nil limiters
// let everything through.
type Limits struct {
	Login   *middleware.RateLimiter
	Post    *middleware.RateLimiter
	Comment *middleware.RateLimiter
}

// Options configures RegisterRoutes.
type Options struct {
	Logger         *logger.Logger
	Limits         Limits
	AllowedOrigins []string
}

// HealthCheck returns the health status of the frontend
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "BiteBox web is running",
	})
}

// RegisterRoutes registers every page and JSON route. The router must
// already run middleware.Sessions.
func RegisterRoutes(router *gin.Engine, opts Options) {
	log := logger.OrNop(opts.Logger)

	router.GET("/health", HealthCheck)

	recipeHandler := NewRecipeHandler(log, opts.Limits)
	authHandler := NewAuthHandler(log, opts.Limits.Login)
	profileHandler := NewProfileHandler(log)

	recipeHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router)

	protected := router.Group("")
	protected.Use(middleware.RequireSession(middleware.DefaultLoginPath))
	recipeHandler.RegisterProtectedRoutes(protected)
	profileHandler.RegisterRoutes(protected)

	jsonAPI := router.Group("/api")
	jsonAPI.Use(middleware.CORS(opts.AllowedOrigins))
	NewJSONHandler(log).RegisterRoutes(jsonAPI)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// fail renders the error page for a failed backend call. Nothing is written
// when the forced logout already redirected the browser.
func fail(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	if c.IsAborted() || c.Writer.Written() {
		return
	}

	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, service.ErrNotAuthenticated):
		c.Redirect(http.StatusSeeOther, middleware.DefaultLoginPath)
	case errors.Is(err, client.ErrNotFound):
		views.RenderError(c, http.StatusNotFound, "We couldn't find what you were looking for.")
	case errors.Is(err, client.ErrForbidden):
		views.RenderError(c, http.StatusForbidden, "You are not allowed to do that.")
	default:
		views.RenderError(c, http.StatusBadGateway, message)
	}
}

// superseded reports whether the forced logout has already answered the
// request.
func superseded(c *gin.Context) bool {
	return c.IsAborted() || c.Writer.Written()
}

// backendMessage is the message to show for a rejected form submission.
func backendMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// formImage validates the optional image field. A missing file is not an
// error.
func formImage(c *gin.Context) (*types.Upload, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, forms.ValidationError{Field: "image", Message: forms.MsgImageType}
	}

	upload, err := forms.ValidateImage(fh)
	var invalid forms.ValidationError
	if err != nil && !errors.As(err, &invalid) {
		return nil, forms.ValidationError{Field: "image", Message: forms.MsgImageType}
	}
	return upload, err
}

// fieldErrors flattens validation errors into a field to message map.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var many forms.ValidationErrors
	var one forms.ValidationError
	switch {
	case errors.As(err, &many):
		out = many.ByField()
	case errors.As(err, &one):
		out[one.Field] = one.Message
	}
	return out
}

// formErrors flattens the result of binding and validating a form. ok is
// false when the body could not be read as a form at all.
func formErrors(err error) (errs map[string]string, ok bool) {
	if err == nil {
		return map[string]string{}, true
	}
	errs = fieldErrors(err)
	return errs, len(errs) > 0
}

func unreadableForm(c *gin.Context, err error) {
	_ = c.Error(err)
	views.RenderError(c, http.StatusBadRequest, "We couldn't read that form. Please try again.")
}

// mergeErrors overrides base with every message in override.
func mergeErrors(base, override map[string]string) map[string]string {
	for k, v := range override {
		base[k] = v
	}
	return base
}
