package middleware

import (
	"context"

	"github.com/billkazi/billkazi/internal/types"
	"github.com/gin-gonic/gin"
)

// RequestIDMiddleware accepts an inbound X-Request-ID or generates one, and
// puts it on both the response header and the request context.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUID()
	}

	c.Header(types.HeaderRequestID, requestID)
	ctx := context.WithValue(c.Request.Context(), types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
