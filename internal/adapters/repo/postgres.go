package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/metrics"
)

// Postgres реализует хранилище рекомендаций на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.RecommendationRepo = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtxWithParent(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// withConn берёт соединение из пула на время fn и возвращает его при любом исходе.
func (p *Postgres) withConn(ctx context.Context, fn func(conn *pgxpool.Conn) error) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()
	return fn(conn)
}

// Save реализует domain.RecommendationRepo. Для (user_id, date) хранится последняя рекомендация.
func (p *Postgres) Save(ctx context.Context, rec domain.Recommendation) error {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	return p.withConn(ctx, func(conn *pgxpool.Conn) error {
		start := time.Now()
		_, err := conn.Exec(ctx, `
INSERT INTO recommendations (user_id, menu_id, dish_id, date)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, date) DO UPDATE SET menu_id = EXCLUDED.menu_id, dish_id = EXCLUDED.dish_id, updated_at = now()
`, rec.UserID, rec.MenuID, rec.DishID, dateOnly(rec.Date))
		metrics.ObserveNetworkRequest("postgres", "recommendation_upsert", "recommendations", start, err)
		if err != nil {
			return fmt.Errorf("save recommendation: %w", err)
		}
		return nil
	})
}

// Latest реализует domain.RecommendationRepo.
func (p *Postgres) Latest(ctx context.Context, userID int64, date time.Time) (domain.Recommendation, error) {
	ctx, cancel := p.connCtxWithParent(ctx)
	defer cancel()

	var rec domain.Recommendation
	err := p.withConn(ctx, func(conn *pgxpool.Conn) error {
		start := time.Now()
		var day time.Time
		err := conn.QueryRow(ctx, `
SELECT user_id, menu_id, dish_id, date
FROM recommendations
WHERE user_id = $1 AND date = $2
`, userID, dateOnly(date)).Scan(&rec.UserID, &rec.MenuID, &rec.DishID, &day)
		metrics.ObserveNetworkRequest("postgres", "recommendation_latest", "recommendations", start, err)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("recommendation for user %d: %w", userID, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load recommendation: %w", err)
		}
		rec.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, date.Location())
		return nil
	})
	if err != nil {
		return domain.Recommendation{}, err
	}
	return rec, nil
}

// dateOnly переносит календарный день t на полночь UTC для колонки DATE.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
