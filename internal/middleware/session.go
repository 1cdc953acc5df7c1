package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/bitebox/frontend/internal/client"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/service"
	"github.com/pageza/bitebox/frontend/internal/session"
)

// Context keys set by Sessions.
const (
	ContextSessionKey       = "session"
	ContextServicesKey      = "services"
	ContextAnonServicesKey  = "anon_services"
	DefaultLoginPath        = "/login"
	DefaultSessionCookie    = "bitebox_session"
	defaultSessionCookieTTL = 24 * time.Hour
)

// SessionConfig configures the Sessions middleware.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Store      session.Store
	APIBaseURL string
	HTTPClient *http.Client
	LoginPath  string
	Logger     *logger.Logger
}

// Sessions identifies the browser by a uuid cookie, loads its Session and
// builds the per-request API client. The client's 401 slot is the
// session's invalidation handler: it logs out, redirects to the login
// page and aborts the handler chain.
func Sessions(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultSessionCookieTTL
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	log := logger.OrNop(cfg.Logger)

	return func(c *gin.Context) {
		sid, err := c.Cookie(cfg.CookieName)
		if err != nil || !validSessionID(sid) {
			sid = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sid, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)

		sess := session.New(sid, cfg.Store, session.WithTTL(cfg.TTL), session.WithLogger(log))
		sess.Load(c.Request.Context())

		api := client.New(cfg.APIBaseURL, client.Options{
			HTTPClient: cfg.HTTPClient,
			Tokens:     sess,
			Logger:     log,
		})
		api.SetUnauthorizedHandler(sess.OnInvalidated(func() {
			if !c.Writer.Written() {
				c.Redirect(http.StatusSeeOther, cfg.LoginPath)
			}
			c.Abort()
		}))

		anon := client.New(cfg.APIBaseURL, client.Options{HTTPClient: cfg.HTTPClient, Logger: log})

		c.Set(ContextSessionKey, sess)
		c.Set(ContextServicesKey, service.New(api))
		c.Set(ContextAnonServicesKey, service.New(anon))
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))

		c.Next()
	}
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// SessionFrom returns the request's session. It panics outside Sessions.
func SessionFrom(c *gin.Context) *session.Session {
	return session.FromContext(c.Request.Context())
}

// ServicesFrom returns the API services bound to the request's session.
func ServicesFrom(c *gin.Context) *service.Services {
	return c.MustGet(ContextServicesKey).(*service.Services)
}

// AnonymousServices returns API services that never send the session
// token and never trigger the forced logout. Login and sign-up use them so
// that rejected credentials stay on the form.
func AnonymousServices(c *gin.Context) *service.Services {
	return c.MustGet(ContextAnonServicesKey).(*service.Services)
}

// RequireSession redirects visitors without a signed-in user to the login
// page before the protected handler runs.
func RequireSession(loginPath string) gin.HandlerFunc {
	if loginPath == "" {
		loginPath = DefaultLoginPath
	}
	return func(c *gin.Context) {
		if !SessionFrom(c).IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
