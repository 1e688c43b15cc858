package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vqlam/thesis-archive-backend/models"
)

// RequireAdmin gates the admin resource. Missing identity and wrong role
// both answer 401 {"message":"Unauthorized"}; the archive does not
// distinguish the two cases.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != string(models.RoleAdmin) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
