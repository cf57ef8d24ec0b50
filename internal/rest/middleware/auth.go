package middleware

import (
	"context"
	"strings"

	"github.com/billkazi/billkazi/internal/auth"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthenticateMiddleware resolves the bearer token to a user id and puts it
// on the request context. Requests without a valid token are rejected before
// reaching any handler.
func AuthenticateMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(types.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.Error(ierr.NewError("missing bearer token").
				WithHint("Authorization header with a Bearer token is required").
				Mark(ierr.ErrPermissionDenied))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), types.CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, types.CtxUserEmail, claims.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CronAuthMiddleware protects the /cron endpoints with a static API key.
func CronAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" || c.GetHeader(types.HeaderCronAPIKey) != apiKey {
			c.Error(ierr.NewError("invalid cron api key").
				WithHint("Invalid API key").
				Mark(ierr.ErrPermissionDenied))
			c.Abort()
			return
		}
		c.Next()
	}
}
