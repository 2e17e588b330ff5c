package auth

import (
	"net/http"

	"gameclub/backend/internal/database"
	"gameclub/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware creates a gin middleware to check for admin role.
// It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		if !CanManageRoles(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}

// CatalogueEditorMiddleware allows only users who may edit the game
// catalogue (organizers and admins). Must follow AuthMiddleware.
func CatalogueEditorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		if !CanEditCatalogue(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Organizer access required"})
			return
		}

		c.Next()
	}
}

// currentUser loads the authenticated user, aborting the request on
// failure.
func currentUser(c *gin.Context) *models.User {
	userID, exists := c.Get("userID")
	if !exists {
		// This should not happen if AuthMiddleware is used before it
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil
	}

	var user models.User
	if err := database.DB.First(&user, userID.(uint)).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Authenticated user not found"})
		return nil
	}
	return &user
}
