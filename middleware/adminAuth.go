package middleware

import (
	"net/http"

	"github.com/jabezgenics-alt/ezzo-sales/models"

	"github.com/gin-gonic/gin"
)

// AdminOnly rejects requests whose authenticated role is not admin. It must
// run after JWTAuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != string(models.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
