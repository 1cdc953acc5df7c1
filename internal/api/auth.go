package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/forms"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/middleware"
	"github.com/pageza/bitebox/frontend/internal/views"
)

const msgRegistered = "Your account is ready. Please log in."

type AuthHandler struct {
	log          *logger.Logger
	loginLimiter *middleware.RateLimiter
}

func NewAuthHandler(log *logger.Logger, loginLimiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		log:          logger.OrNop(log).Named("auth"),
		loginLimiter: loginLimiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.loginLimiter.Middleware(), h.Login)
	router.GET("/signup", h.SignupPage)
	router.POST("/signup", h.Signup)
	router.POST("/logout", h.Logout)
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	notice := ""
	if c.Query("registered") != "" {
		notice = msgRegistered
	}
	h.renderLogin(c, http.StatusOK, "", "", notice)
}

// Login exchanges the credentials for a token and starts the session.
// Rejected credentials stay on the form.
func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusUnprocessableEntity, form.Email, forms.MsgCredentialsMissing, "")
		return
	}

	token, err := middleware.AnonymousServices(c).Auth.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		_ = c.Error(err)
		switch {
		case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrBadRequest), errors.Is(err, client.ErrNotFound):
			h.renderLogin(c, http.StatusUnauthorized, form.Email, "Invalid email or password", "")
		default:
			h.renderLogin(c, http.StatusBadGateway, form.Email, "Login is unavailable right now. Please try again.", "")
		}
		return
	}

	if _, err := middleware.SessionFrom(c).Login(c.Request.Context(), token); err != nil {
		_ = c.Error(err)
		h.renderLogin(c, http.StatusBadGateway, form.Email, "We couldn't start your session. Please try again.", "")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, email, message, notice string) {
	data := views.Data(c, "Log in")
	data["Email"] = email
	data["Error"] = message
	data["Notice"] = notice
	c.HTML(status, views.Login, data)
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	h.renderSignup(c, http.StatusOK, &forms.SignupForm{}, nil, "")
}

// Signup validates the form, registers the account and signs the user in
// when the backend hands back a token.
func (h *AuthHandler) Signup(c *gin.Context) {
	form := &forms.SignupForm{}
	bindErr := c.ShouldBind(form)

	// a rejected username is never kept in the form
	typed := form.Username
	form.Username = ""
	usernameErr := form.SetUsername(typed)

	errs, ok := formErrors(form.ValidateBound(bindErr))
	if !ok {
		unreadableForm(c, bindErr)
		return
	}
	if usernameErr != nil {
		errs = mergeErrors(errs, fieldErrors(usernameErr))
	}

	avatar, err := formImage(c)
	if err != nil {
		errs = mergeErrors(errs, fieldErrors(err))
	}
	form.Avatar = avatar

	if len(errs) > 0 {
		h.renderSignup(c, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	token, err := middleware.AnonymousServices(c).Auth.Register(c.Request.Context(), form.Request())
	if err != nil {
		_ = c.Error(err)
		status := http.StatusBadGateway
		if errors.Is(err, client.ErrBadRequest) {
			status = http.StatusUnprocessableEntity
		}
		h.renderSignup(c, status, form, nil, backendMessage(err, "We couldn't create your account. Please try again."))
		return
	}

	if token == "" {
		c.Redirect(http.StatusSeeOther, middleware.DefaultLoginPath+"?registered=1")
		return
	}
	if _, err := middleware.SessionFrom(c).Login(c.Request.Context(), token); err != nil {
		h.log.Warnw("signup returned an unusable token", "error", err)
		c.Redirect(http.StatusSeeOther, middleware.DefaultLoginPath+"?registered=1")
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) renderSignup(c *gin.Context, status int, form *forms.SignupForm, errs map[string]string, message string) {
	if errs == nil {
		errs = map[string]string{}
	}
	data := views.Data(c, "Sign up")
	data["Form"] = form
	data["Errors"] = errs
	data["Error"] = message
	c.HTML(status, views.Signup, data)
}

// Logout ends the session and returns home.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.SessionFrom(c).Logout(c.Request.Context()); err != nil {
		h.log.Warnw("failed to clear session", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}
