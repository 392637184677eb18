package services

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"chirp/db"
	"chirp/models"

	"github.com/forPelevin/gomoji"
)

const MAX_POST_LENGTH = 280 // Максимальная длина поста в символах

// PostService - сервис создания постов
type PostService struct {
	limiter *RateLimiter
}

func NewPostService(limiter *RateLimiter) *PostService {
	return &PostService{limiter: limiter}
}

// ValidateContent проверяет, что контент непустой, не длиннее лимита и
// состоит только из эмодзи
func ValidateContent(content string) error {
	length := utf8.RuneCountInString(content)
	if length < 1 {
		return fmt.Errorf("%w: content must not be empty", ErrBadRequest)
	}
	if length > MAX_POST_LENGTH {
		return fmt.Errorf("%w: content must be at most %d characters", ErrBadRequest, MAX_POST_LENGTH)
	}
	if gomoji.RemoveEmojis(content) != "" {
		return fmt.Errorf("%w: content: only emojis are allowed", ErrBadRequest)
	}
	return nil
}

// CreatePost создает пост. Порядок шагов фиксированный: авторизация,
// валидация, лимитер, запись. Неавторизованный или невалидный запрос
// не тратит бюджет лимитера, отказ лимитера не создает запись.
func (ps *PostService) CreatePost(ctx context.Context, authorID string, content string) (*models.Post, error) {
	if authorID == "" {
		return nil, fmt.Errorf("%w: no authenticated subject", ErrUnauthorized)
	}

	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	allowed, err := ps.limiter.Check(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: you are posting too fast", ErrRateLimited)
	}

	post := &models.Post{
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}

	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		log.Printf("ERROR: Failed to create post in DB: %v", err)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}
