package middleware

import (
	"net/http"
	"strings"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.LogError("Missing Authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
		userID, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}
		utils.LogDebug("Authenticating user ID: %d", userID)

		var user models.User
		if err := config.DB.First(&user, userID).Error; err != nil {
			utils.LogError("User not found: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if user.IsDisabled {
			utils.LogError("Disabled user attempted access: %d", userID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// SuperAdminMiddleware gates the admin console. Must run after
// AuthMiddleware; the role check happens before any business rule so pricing
// and coupon data never leaks to unauthorized callers.
func SuperAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		if !exists {
			utils.LogError("User not found in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			c.Abort()
			return
		}

		userModel, ok := user.(models.User)
		if !ok {
			utils.LogError("Invalid user type in context")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user type"})
			c.Abort()
			return
		}

		if userModel.Role != "SUPER_ADMIN" {
			utils.LogError("Non-admin user attempted admin access: %d", userModel.ID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
