package ranker

import "dish-recommendations/internal/domain"

const unknownCategory = "unknown"

// SimpleRanker выбирает блюдо по правилу первого совпадения.
type SimpleRanker struct{}

var _ domain.Selector = (*SimpleRanker)(nil)

// NewSimple создаёт ранжировщик.
func NewSimple() *SimpleRanker {
	return &SimpleRanker{}
}

// Select возвращает первое понравившееся блюдо в порядке меню. Если таких нет,
// а предпочтения заданы, берётся первое блюдо самой многочисленной категории.
// Без предпочтений возвращается первое блюдо меню.
func (r *SimpleRanker) Select(liked domain.LikedDishes, available []domain.Dish) (int64, bool) {
	if len(available) == 0 {
		return 0, false
	}
	for _, d := range available {
		if liked.Has(d.ID) {
			return d.ID, true
		}
	}
	if len(liked) > 0 {
		return LargestCategoryFirst(available), true
	}
	return available[0].ID, true
}

// LargestCategoryFirst возвращает первое блюдо самой многочисленной категории.
// При равенстве побеждает категория, встреченная раньше. Для пустого меню возвращает 0.
func LargestCategoryFirst(available []domain.Dish) int64 {
	if len(available) == 0 {
		return 0
	}
	counts := make(map[string]int)
	first := make(map[string]int64)
	order := make([]string, 0)
	for _, d := range available {
		category := d.Category
		if category == "" {
			category = unknownCategory
		}
		if _, ok := counts[category]; !ok {
			order = append(order, category)
			first[category] = d.ID
		}
		counts[category]++
	}
	best := order[0]
	for _, category := range order[1:] {
		if counts[category] > counts[best] {
			best = category
		}
	}
	return first[best]
}
