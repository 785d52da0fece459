package middleware

import (
	"net/http"
	"strings"

	"podstudio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminIDKey is the gin context key holding the authenticated admin's ID.
const AdminIDKey = "adminID"

// JWTAuthAdminMiddleware accepts a bearer JWT and exposes its subject as the admin ID.
func JWTAuthAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		adminID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil {
			utils.GetLogger().Debug("admin token rejected", zap.String("ip", getClientIP(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set(AdminIDKey, adminID)
		c.Set("isAdmin", true)
		c.Next()
	}
}

// AdminID returns the admin ID set by JWTAuthAdminMiddleware.
func AdminID(c *gin.Context) string {
	return c.GetString(AdminIDKey)
}
