package middleware

import (
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandlerMiddleware converts errors attached to the gin context into
// the uniform JSON error envelope. Handlers call c.Error(err) and return;
// this middleware does the rest.
func ErrorHandlerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromError(err)

		if status >= 500 {
			log.WithContext(c.Request.Context()).Errorw("request failed",
				"error", err,
				"path", c.Request.URL.Path,
			)
		}

		c.JSON(status, ierr.NewErrorResponse(err))
	}
}
