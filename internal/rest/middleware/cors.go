package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paymenu/grouppay/internal/types"
)

// CORSMiddleware handles CORS headers. The gateway is consumed by
// server-side billing systems, browsers only hit it from admin tooling.
func CORSMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{
		"Content-Type",
		types.HeaderAuthorization,
		types.HeaderAPIKey,
		types.HeaderRequestID,
	}, ", "))
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}
