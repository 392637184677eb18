package handlers

import (
	"errors"
	"net/http"

	"chirp/api/middleware"
	"chirp/services"

	"github.com/gin-gonic/gin"
)

var (
	postService *services.PostService
	feedService *services.FeedService
)

// InitHandlers связывает хендлеры с сервисами. Вызывается один раз
// при старте сервера (и в тестах).
func InitHandlers(posts *services.PostService, feed *services.FeedService, directory *services.DirectoryService) {
	postService = posts
	feedService = feed
	directoryService = directory
}

// respondError переводит ошибку сервиса в HTTP статус по ее виду
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// CreatePost создает новый пост
func CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// ID пользователя кладет auth middleware
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post, err := postService.CreatePost(c.Request.Context(), userID.(string), req.Content)
	if err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			middleware.RecordPostRateLimited()
		}
		respondError(c, err)
		return
	}

	middleware.RecordPostCreated()
	c.JSON(http.StatusCreated, post)
}

// GetAllPosts возвращает ленту (новые сверху, не больше 100)
func GetAllPosts(c *gin.Context) {
	posts, err := feedService.GetAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			middleware.RecordEnrichmentFailure()
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID возвращает один пост с автором
func GetPostByID(c *gin.Context) {
	post, err := feedService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetPostsByUserID возвращает посты одного автора
func GetPostsByUserID(c *gin.Context) {
	posts, err := feedService.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			middleware.RecordEnrichmentFailure()
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}
