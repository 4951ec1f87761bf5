package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized возвращается при отсутствующем, неверном или просроченном токене.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound возвращается, когда пользователь, меню или рекомендация не найдены.
	ErrNotFound = errors.New("not found")

	// ErrNoRecommendation возвращается, когда подобрать блюдо невозможно.
	ErrNoRecommendation = fmt.Errorf("no recommendation possible: %w", ErrNotFound)

	// ErrUpstream возвращается при ошибке внешнего сервиса: статус, формат ответа, сеть или таймаут.
	ErrUpstream = errors.New("upstream error")
)
