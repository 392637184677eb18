package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chirp/db"
	"chirp/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB инициализирует тестовую базу данных SQLite в памяти
func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.AutoMigrate(&models.Post{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db.ORM = database
}

// newTestLimiter поднимает лимитер поверх miniredis
func newTestLimiter(t *testing.T, limit int, window time.Duration) *RateLimiter {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return &RateLimiter{client: client, limit: limit, window: window}
}

// fakeProvider эмулирует identity provider: отдает пользователей из
// заданного набора и проверяет токены вида sess_<user_id>
func fakeProvider(t *testing.T, users []models.PublicUser) *DirectoryService {
	t.Helper()

	byID := make(map[string]models.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/users":
			query := r.URL.Query()
			var found []map[string]string
			if username := query.Get("username"); username != "" {
				for _, u := range users {
					if u.Username == username {
						found = append(found, providerUserJSON(u))
					}
				}
			} else {
				for _, id := range query["user_id"] {
					if u, ok := byID[id]; ok {
						found = append(found, providerUserJSON(u))
					}
				}
			}
			if found == nil {
				found = []map[string]string{}
			}
			json.NewEncoder(w).Encode(found)
		case "/v1/tokens/verify":
			var req struct {
				Token string `json:"token"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Token) > 5 && req.Token[:5] == "sess_" {
				if _, ok := byID[req.Token[5:]]; ok {
					json.NewEncoder(w).Encode(map[string]string{"user_id": req.Token[5:]})
					return
				}
			}
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return NewDirectoryService(server.URL, "test_api_key")
}

func providerUserJSON(u models.PublicUser) map[string]string {
	picture := u.ProfilePicture
	if picture == DEFAULT_AVATAR {
		// Проверяем подстановку заглушки: провайдер картинку не присылает
		picture = ""
	}
	return map[string]string{
		"id":                u.ID,
		"username":          u.Username,
		"profile_image_url": picture,
	}
}
