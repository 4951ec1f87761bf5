package domain

import "time"

// DateLayout задаёт формат даты рекомендации.
const DateLayout = "2006-01-02"

// Dish описывает блюдо, доступное в меню.
type Dish struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Period      string `json:"period,omitempty"`
	Date        string `json:"date,omitempty"`
}

// MenuView описывает нормализованное меню: идентификатор и упорядоченный список блюд.
type MenuView struct {
	ID     int64  `json:"id"`
	Dishes []Dish `json:"dishes"`
}

// LikedDishes хранит множество блюд, отмеченных пользователем.
type LikedDishes map[int64]struct{}

// NewLikedDishes строит множество из списка идентификаторов.
func NewLikedDishes(ids ...int64) LikedDishes {
	liked := make(LikedDishes, len(ids))
	for _, id := range ids {
		liked[id] = struct{}{}
	}
	return liked
}

// Has сообщает, входит ли блюдо в множество.
func (l LikedDishes) Has(id int64) bool {
	_, ok := l[id]
	return ok
}

// Recommendation описывает выбранное для пользователя блюдо на дату.
type Recommendation struct {
	UserID int64     `json:"user_id"`
	MenuID int64     `json:"menu_id"`
	DishID int64     `json:"dish_id"`
	Date   time.Time `json:"date"`
}

// Day возвращает дату рекомендации в формате YYYY-MM-DD.
func (r Recommendation) Day() string {
	return r.Date.Format(DateLayout)
}
