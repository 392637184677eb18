package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"chirp/models"
)

const (
	DIRECTORY_BATCH_LIMIT = 100                    // Максимум пользователей за один batch-запрос
	DEFAULT_AVATAR        = "/avatars/default.png" // Заглушка, если у профиля нет картинки
)

// providerUser - сырой ответ identity provider, из него берем только
// публичные поля (см. models.PublicUser)
type providerUser struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
}

// DirectoryService - адаптер к identity provider. Только чтение, без
// ретраев: ошибка провайдера отдается наверх как есть.
type DirectoryService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewDirectoryService(baseURL, apiKey string) *DirectoryService {
	return &DirectoryService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func filterUserForClient(u providerUser) models.PublicUser {
	picture := u.ProfileImageURL
	if picture == "" {
		picture = DEFAULT_AVATAR
	}
	return models.PublicUser{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: picture,
	}
}

func (ds *DirectoryService) getUserList(ctx context.Context, query url.Values) ([]providerUser, error) {
	reqURL := fmt.Sprintf("%s/v1/users?%s", ds.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+ds.apiKey)

	resp, err := ds.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var users []providerUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to decode identity provider response: %w", err)
	}
	return users, nil
}

// GetByIDs батчем забирает профили (не больше DIRECTORY_BATCH_LIMIT за один
// вызов) и возвращает их проекции по id.
func (ds *DirectoryService) GetByIDs(ctx context.Context, ids []string) (map[string]models.PublicUser, error) {
	result := make(map[string]models.PublicUser, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	if len(ids) > DIRECTORY_BATCH_LIMIT {
		return nil, fmt.Errorf("%w: too many user ids in one lookup", ErrBadRequest)
	}

	query := url.Values{}
	for _, id := range ids {
		query.Add("user_id", id)
	}
	query.Set("limit", fmt.Sprintf("%d", DIRECTORY_BATCH_LIMIT))

	users, err := ds.getUserList(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		result[u.ID] = filterUserForClient(u)
	}
	return result, nil
}

// GetByUsername ищет ровно одного пользователя по имени
func (ds *DirectoryService) GetByUsername(ctx context.Context, username string) (models.PublicUser, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("limit", "1")

	users, err := ds.getUserList(ctx, query)
	if err != nil {
		return models.PublicUser{}, err
	}
	if len(users) == 0 {
		return models.PublicUser{}, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return filterUserForClient(users[0]), nil
}

// VerifySession проверяет сессионный токен у провайдера и возвращает id
// пользователя (subject). Невалидный токен - ErrUnauthorized.
func (ds *DirectoryService) VerifySession(ctx context.Context, token string) (string, error) {
	body, _ := json.Marshal(map[string]string{"token": token})
	reqURL := ds.baseURL + "/v1/tokens/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+ds.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ds.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: invalid session token", ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var session struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("failed to decode identity provider response: %w", err)
	}
	if session.UserID == "" {
		return "", fmt.Errorf("%w: invalid session token", ErrUnauthorized)
	}
	return session.UserID, nil
}
