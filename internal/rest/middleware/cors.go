package middleware

import (
	"net/http"

	"github.com/billkazi/billkazi/internal/types"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the SPA frontend to call the API from another
// origin.
func CORSMiddleware(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", types.HeaderAuthorization+", Content-Type, "+types.HeaderRequestID)

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
