package routes

import (
	"chirp/api/handlers"
	"chirp/api/middleware"
	"chirp/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PublicApi регистрирует публичные (чтение) и приватные (запись) роуты.
// Приватные требуют валидной сессии, публичные - нет.
func PublicApi(router *gin.Engine, directory *services.DirectoryService) {
	publicEndpoints := router.Group("/api/v1/")
	publicEndpoints.Use(middleware.OptionalAuthMiddleware(directory))
	{
		publicEndpoints.GET("posts", handlers.GetAllPosts)
		publicEndpoints.GET("posts/get/:id", handlers.GetPostByID)
		publicEndpoints.GET("posts/user/:user_id", handlers.GetPostsByUserID)
		publicEndpoints.GET("profile/:username", handlers.GetUserByUsername)
		publicEndpoints.GET("profile/:username/posts", handlers.GetUserPosts)
	}

	privateEndpoints := router.Group("/api/v1/")
	privateEndpoints.Use(middleware.AuthMiddleware(directory))
	{
		privateEndpoints.POST("posts/create", handlers.CreatePost)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
