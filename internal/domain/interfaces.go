package domain

import (
	"context"
	"time"
)

// PreferenceClient получает понравившиеся пользователю блюда.
type PreferenceClient interface {
	FetchLiked(ctx context.Context, userID int64) (LikedDishes, error)
}

// MenuClient получает меню по идентификатору.
type MenuClient interface {
	FetchMenu(ctx context.Context, menuID int64, token string) (MenuView, error)
}

// Selector выбирает блюдо из доступных.
type Selector interface {
	Select(liked LikedDishes, available []Dish) (int64, bool)
}

// RecommendationRepo сохраняет рекомендации.
type RecommendationRepo interface {
	// Save записывает рекомендацию. Для пары (user_id, date) хранится одна запись,
	// повторное сохранение заменяет её.
	Save(ctx context.Context, rec Recommendation) error
	// Latest возвращает рекомендацию пользователя за день или ErrNotFound.
	Latest(ctx context.Context, userID int64, date time.Time) (Recommendation, error)
}

// EventPublisher публикует события о сохранённых рекомендациях.
type EventPublisher interface {
	Publish(ctx context.Context, event RecommendationEvent) error
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}
