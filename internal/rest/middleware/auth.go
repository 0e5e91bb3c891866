package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paymenu/grouppay/internal/auth"
	"github.com/paymenu/grouppay/internal/logger"
	"github.com/paymenu/grouppay/internal/types"
)

// AuthenticateMiddleware authenticates requests based on either:
// 1. API key in the x-api-key header
// 2. JWT token in the Authorization header as a Bearer token
// It sets the account ID in the request context for downstream handlers.
func AuthenticateMiddleware(authService *auth.Service, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(types.HeaderAPIKey)
		if apiKey != "" {
			accountID, err := authService.AuthenticateAPIKey(c.Request.Context(), apiKey)
			if err != nil {
				logger.Debugw("invalid api key", "error", err)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
				c.Abort()
				return
			}

			ctx := types.SetAccountID(c.Request.Context(), accountID)
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return
		}

		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		ctx := types.SetAccountID(c.Request.Context(), claims.AccountID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
