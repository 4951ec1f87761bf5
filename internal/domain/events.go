package domain

import "time"

// RecommendationEventType задаёт тип события о рекомендации.
const RecommendationEventType = "recommendation_saved"

// RecommendationEvent отправляется после сохранения рекомендации.
type RecommendationEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"type"`
	UserID    int64     `json:"user_id"`
	MenuID    int64     `json:"menu_id"`
	DishID    int64     `json:"dish_id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
