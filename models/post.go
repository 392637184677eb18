package models

import "time"

// Post - модель поста. AuthorID принадлежит внешнему identity provider и
// при записи не проверяется: сверка происходит при чтении ленты.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Content   string    `gorm:"type:text" json:"content"`
	AuthorID  string    `gorm:"size:64;index" json:"author_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

// PublicUser - публичная проекция профиля из identity provider.
// Мы ничего из этого не храним, только читаем и отдаем.
type PublicUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// EnrichedPost - пост вместе с автором, собирается на каждый запрос.
// Author обязателен: если профиль не нашелся, весь ответ - ошибка,
// а не пост без автора.
type EnrichedPost struct {
	Post
	Author PublicUser `json:"author"`
}
