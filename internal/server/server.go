package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/bitebox/frontend/config"
	"github.com/pageza/bitebox/frontend/internal/api"
	"github.com/pageza/bitebox/frontend/internal/logger"
	"github.com/pageza/bitebox/frontend/internal/middleware"
	"github.com/pageza/bitebox/frontend/internal/session"
	"github.com/pageza/bitebox/frontend/internal/views"
)

const (
	maxHeaderBytes     = 1 << 20
	maxMultipartMemory = 8 << 20
	readHeaderTimeout  = 10 * time.Second
	writeTimeout       = 60 * time.Second
	idleTimeout        = 120 * time.Second
)

// Options are the dependencies of the web server.
type Options struct {
	Config *config.Config
	Store  session.Store
	// Redis enables rate limiting when set.
	Redis *redis.Client
	// HTTPClient is used for backend calls; nil means the default client.
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// New builds the router with every middleware and route.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Store == nil {
		return nil, errors.New("server: session store is required")
	}
	cfg := opts.Config
	log := logger.OrNop(opts.Logger)

	tmpl, err := views.Load()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory
	router.SetHTMLTemplate(tmpl)
	router.Use(
		middleware.RequestLogger(log.Named("http"), "/health"),
		middleware.ErrorHandler(log, views.RenderError),
		middleware.Sessions(middleware.SessionConfig{
			CookieName: cfg.SessionCookie,
			TTL:        cfg.SessionTTL,
			Secure:     cfg.SecureCookies,
			Store:      opts.Store,
			APIBaseURL: cfg.APIBaseURL,
			HTTPClient: opts.HTTPClient,
			Logger:     log.Named("session"),
		}),
	)
	router.NoRoute(func(c *gin.Context) {
		views.RenderError(c, http.StatusNotFound, "This page does not exist.")
	})

	var limits api.Limits
	if cfg.RateLimit && opts.Redis != nil {
		limits = api.Limits{
			Login:   middleware.NewLoginRateLimiter(opts.Redis, views.RenderError, log),
			Post:    middleware.NewRecipePostRateLimiter(opts.Redis, views.RenderError, log),
			Comment: middleware.NewCommentRateLimiter(opts.Redis, views.RenderError, log),
		}
	} else {
		log.Infow("rate limiting disabled", "enabled", cfg.RateLimit, "redis", opts.Redis != nil)
	}

	api.RegisterRoutes(router, api.Options{
		Logger:         log,
		Limits:         limits,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	return &Server{
		router: router,
		log:    log,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			MaxHeaderBytes:    maxHeaderBytes,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.log.Infow("web server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, letting in-flight requests
// finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
