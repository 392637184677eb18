package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"chirp/config"
	"chirp/db"
	"chirp/models"

	"gorm.io/gorm"
)

// FeedService собирает ленту: читает посты из БД и на каждый запрос
// подтягивает авторов из identity provider
type FeedService struct {
	directory   *DirectoryService
	maxPageSize int
}

func NewFeedService(directory *DirectoryService) *FeedService {
	maxPageSize := 100
	if config.AppConfig != nil {
		maxPageSize = config.AppConfig.Feed.MaxPageSize
	}
	return &FeedService{directory: directory, maxPageSize: maxPageSize}
}

// enrichPosts объединяет посты с профилями авторов. Один batch-запрос
// в каталог на весь список. Если хоть один автор не нашелся (профиль
// удален или переименован), вся операция - ErrNotFound: частичную ленту
// не отдаем.
func (fs *FeedService) enrichPosts(ctx context.Context, posts []models.Post) ([]models.EnrichedPost, error) {
	enriched := make([]models.EnrichedPost, 0, len(posts))
	if len(posts) == 0 {
		return enriched, nil
	}

	seen := make(map[string]bool, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for _, post := range posts {
		if !seen[post.AuthorID] {
			seen[post.AuthorID] = true
			authorIDs = append(authorIDs, post.AuthorID)
		}
	}

	authors, err := fs.directory.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			return nil, fmt.Errorf("%w: author not found", ErrNotFound)
		}
		enriched = append(enriched, models.EnrichedPost{Post: post, Author: author})
	}
	return enriched, nil
}

func (fs *FeedService) findPosts(ctx context.Context, authorID string) ([]models.Post, error) {
	query := db.GetReadOnlyDB(ctx).
		Model(&models.Post{}).
		Order("created_at DESC, id DESC").
		Limit(fs.maxPageSize)

	if authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	return posts, nil
}

// GetAll возвращает свежие посты всех авторов (не больше maxPageSize)
func (fs *FeedService) GetAll(ctx context.Context) ([]models.EnrichedPost, error) {
	posts, err := fs.findPosts(ctx, "")
	if err != nil {
		return nil, err
	}
	return fs.enrichPosts(ctx, posts)
}

// GetByID возвращает один пост с автором. Нечисловой id отсекается
// до похода в БД.
func (fs *FeedService) GetByID(ctx context.Context, idStr string) (models.EnrichedPost, error) {
	postID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return models.EnrichedPost{}, fmt.Errorf("%w: invalid post ID", ErrBadRequest)
	}

	var post models.Post
	err = db.GetReadOnlyDB(ctx).First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EnrichedPost{}, fmt.Errorf("%w: post not found", ErrNotFound)
	}
	if err != nil {
		return models.EnrichedPost{}, fmt.Errorf("failed to get post: %w", err)
	}

	enriched, err := fs.enrichPosts(ctx, []models.Post{post})
	if err != nil {
		return models.EnrichedPost{}, err
	}
	return enriched[0], nil
}

// GetByUserID возвращает посты одного автора, новые сверху
func (fs *FeedService) GetByUserID(ctx context.Context, userID string) ([]models.EnrichedPost, error) {
	posts, err := fs.findPosts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return fs.enrichPosts(ctx, posts)
}

// GetByAuthorUsername резолвит username через каталог, затем отдает посты
// этого автора
func (fs *FeedService) GetByAuthorUsername(ctx context.Context, username string) ([]models.EnrichedPost, error) {
	user, err := fs.directory.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return fs.GetByUserID(ctx, user.ID)
}
