package handlers

import (
	"net/http"

	"chirp/services"

	"github.com/gin-gonic/gin"
)

var directoryService *services.DirectoryService

// GetUserByUsername возвращает публичный профиль по имени пользователя
func GetUserByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	user, err := directoryService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUserPosts возвращает посты автора, найденного по имени пользователя
func GetUserPosts(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	posts, err := feedService.GetByAuthorUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}
