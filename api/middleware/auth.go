package middleware

import (
	"net/http"
	"strings"

	"chirp/config"
	"chirp/services"

	"github.com/gin-gonic/gin"
)

func devHeaderAllowed() bool {
	return config.AppConfig != nil && config.AppConfig.Identity.DevAuthHeader
}

func subjectFromRequest(c *gin.Context, directory *services.DirectoryService) (string, bool) {
	// X-User-ID заголовок - только для локальной разработки и тестов
	if devHeaderAllowed() {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			return userID, true
		}
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	// Проверка сессии делегирована identity provider
	userID, err := directory.VerifySession(c.Request.Context(), token)
	if err != nil {
		return "", false
	}
	return userID, true
}

// AuthMiddleware - обязательная аутентификация для приватных роутов
func AuthMiddleware(directory *services.DirectoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := subjectFromRequest(c, directory)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware - для публичных роутов: subject выставляется,
// если токен есть и валиден, но запрос не отклоняется
func OptionalAuthMiddleware(directory *services.DirectoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := subjectFromRequest(c, directory); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}
