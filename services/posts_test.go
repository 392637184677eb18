package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"chirp/db"
	"chirp/models"

	"github.com/stretchr/testify/require"
)

func newTestPostService(t *testing.T) *PostService {
	setupTestDB(t)
	return NewPostService(newTestLimiter(t, 3, time.Minute))
}

func countPosts(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.ORM.Model(&models.Post{}).Count(&count).Error)
	return count
}

func TestCreatePostValidEmoji(t *testing.T) {
	ps := newTestPostService(t)

	post, err := ps.CreatePost(context.Background(), "user_1", "🙂")
	require.NoError(t, err)
	require.NotZero(t, post.ID)
	require.Equal(t, "user_1", post.AuthorID)
	require.Equal(t, "🙂", post.Content)
	require.False(t, post.CreatedAt.IsZero())
}

func TestCreatePostRequiresSubject(t *testing.T) {
	ps := newTestPostService(t)

	_, err := ps.CreatePost(context.Background(), "", "🙂")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.EqualValues(t, 0, countPosts(t))
}

func TestCreatePostContentValidation(t *testing.T) {
	ps := newTestPostService(t)

	cases := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("🙂", 281)},
		{"plain text", "hello"},
		{"mixed text and emoji", "hi 🙂"},
		{"digits", "123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ps.CreatePost(context.Background(), "user_1", tc.content)
			require.ErrorIs(t, err, ErrBadRequest)
		})
	}

	// Ни одна из невалидных попыток не должна была создать запись
	require.EqualValues(t, 0, countPosts(t))
}

func TestCreatePostMaxLengthBoundary(t *testing.T) {
	ps := newTestPostService(t)

	post, err := ps.CreatePost(context.Background(), "user_1", strings.Repeat("🙂", 280))
	require.NoError(t, err)
	require.NotZero(t, post.ID)
}

func TestCreatePostRateLimit(t *testing.T) {
	ps := newTestPostService(t)
	ctx := context.Background()

	var created []*models.Post
	for i := 0; i < 3; i++ {
		post, err := ps.CreatePost(ctx, "u1", "🙂")
		require.NoError(t, err)
		created = append(created, post)
	}

	// Посты различимы и идут по возрастанию created_at
	for i := 1; i < len(created); i++ {
		require.NotEqual(t, created[i-1].ID, created[i].ID)
		require.False(t, created[i].CreatedAt.Before(created[i-1].CreatedAt))
	}

	_, err := ps.CreatePost(ctx, "u1", "🙂")
	require.ErrorIs(t, err, ErrRateLimited)
	require.EqualValues(t, 3, countPosts(t))

	// Другой пользователь в тот же момент публикует без проблем
	_, err = ps.CreatePost(ctx, "u2", "🎉")
	require.NoError(t, err)
}

func TestCreatePostInvalidInputConsumesNoBudget(t *testing.T) {
	ps := newTestPostService(t)
	ctx := context.Background()

	// Невалидный контент и отсутствие subject отсекаются до лимитера
	for i := 0; i < 10; i++ {
		_, err := ps.CreatePost(ctx, "u1", "not emoji")
		require.ErrorIs(t, err, ErrBadRequest)
		_, err = ps.CreatePost(ctx, "", "🙂")
		require.ErrorIs(t, err, ErrUnauthorized)
	}

	for i := 0; i < 3; i++ {
		_, err := ps.CreatePost(ctx, "u1", "🙂")
		require.NoError(t, err)
	}
}

func TestValidateContentErrorNamesField(t *testing.T) {
	err := ValidateContent("abc")
	require.ErrorIs(t, err, ErrBadRequest)
	require.Contains(t, err.Error(), "content")

	require.True(t, errors.Is(ValidateContent(""), ErrBadRequest))
	require.NoError(t, ValidateContent("👍🏽"))
	require.NoError(t, ValidateContent("🙂🎉🚀"))
}
