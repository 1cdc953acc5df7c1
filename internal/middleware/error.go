package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/pageza/bitebox/frontend/internal/logger"
)

// ErrorRenderer writes an error page for status with a user-facing message.
type ErrorRenderer func(c *gin.Context, status int, message string)

// ErrorResponse is the JSON error body used when no renderer is set.
type ErrorResponse struct {
	Error string `json:"error"`
}

func jsonError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// ErrorHandler recovers panics into a 500 page and logs errors handlers
// attached with c.Error.
func ErrorHandler(log *logger.Logger, render ErrorRenderer) gin.HandlerFunc {
	log = logger.OrNop(log)
	if render == nil {
		render = jsonError
	}
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Errorw("panic while serving request",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", err,
					"stack", string(debug.Stack()),
				)
				if !c.Writer.Written() {
					render(c, http.StatusInternalServerError, "Something went wrong on our side. Please try again.")
				}
				c.Abort()
			}
		}()

		c.Next()

		for _, e := range c.Errors {
			log.Warnw("request error",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"error", e.Err,
			)
		}
	}
}
