package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/metrics"
)

// ErrInvalidMenuID возвращается, если идентификатор меню не положительный.
var ErrInvalidMenuID = errors.New("menu_id must be a positive integer")

const defaultEventDedupTTL = 24 * time.Hour

// Request содержит явные параметры запроса рекомендации.
type Request struct {
	UserID int64
	Token  string
	MenuID int64
}

// Result содержит сохранённую рекомендацию и меню, по которому она выбрана.
type Result struct {
	Recommendation domain.Recommendation
	Menu           domain.MenuView
	Date           string
}

// Service подбирает, сохраняет и публикует рекомендации.
type Service struct {
	prefs     domain.PreferenceClient
	menus     domain.MenuClient
	selector  domain.Selector
	repo      domain.RecommendationRepo
	publisher domain.EventPublisher
	backend   string
	cache     domain.Cache
	log       zerolog.Logger

	loc      *time.Location
	now      func() time.Time
	dedupTTL time.Duration
}

type Option func(*Service)

// WithEvents включает публикацию событий с дедупликацией через cache.
func WithEvents(backend string, publisher domain.EventPublisher, cache domain.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.backend = backend
		s.publisher = publisher
		s.cache = cache
		if ttl > 0 {
			s.dedupTTL = ttl
		}
	}
}

// WithLocation задаёт часовой пояс, в котором считается текущая дата.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService создаёт сервис рекомендаций.
func NewService(prefs domain.PreferenceClient, menus domain.MenuClient, selector domain.Selector, repo domain.RecommendationRepo, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		prefs:    prefs,
		menus:    menus,
		selector: selector,
		repo:     repo,
		log:      logger,
		loc:      time.UTC,
		now:      time.Now,
		dedupTTL: defaultEventDedupTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend выполняет цепочку: предпочтения и меню (параллельно) → выбор → сохранение.
// При любой ошибке ничего не сохраняется.
func (s *Service) Recommend(ctx context.Context, req Request) (res Result, err error) {
	start := time.Now()
	defer func() { metrics.ObserveRecommendation(outcome(err), start) }()

	if req.UserID <= 0 {
		return Result{}, domain.ErrUnauthorized
	}
	if req.MenuID <= 0 {
		return Result{}, ErrInvalidMenuID
	}
	logger := s.log.With().Int64("user_id", req.UserID).Int64("menu_id", req.MenuID).Logger()
	logger.Info().Msg("recommendation started")

	var (
		liked domain.LikedDishes
		menu  domain.MenuView
	)
	// Ошибка предпочтений важнее ошибки меню: при её появлении запрос меню отменяется,
	// а падение меню не прерывает запрос предпочтений.
	menuCtx, cancelMenu := context.WithCancel(ctx)
	defer cancelMenu()
	var (
		g                errgroup.Group
		prefErr, menuErr error
	)
	g.Go(func() error {
		liked, prefErr = s.prefs.FetchLiked(ctx, req.UserID)
		if prefErr != nil {
			cancelMenu()
		}
		return nil
	})
	g.Go(func() error {
		menu, menuErr = s.menus.FetchMenu(menuCtx, req.MenuID, req.Token)
		return nil
	})
	_ = g.Wait()
	if err := firstError(prefErr, menuErr); err != nil {
		logger.Warn().Err(err).Msg("recommendation upstream failed")
		return Result{}, err
	}

	dishID, ok := s.selector.Select(liked, menu.Dishes)
	if !ok {
		return Result{}, fmt.Errorf("меню %d: %w", menu.ID, domain.ErrNoRecommendation)
	}

	rec := domain.Recommendation{
		UserID: req.UserID,
		MenuID: menu.ID,
		DishID: dishID,
		Date:   s.today(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("сохранение рекомендации: %w", err)
	}
	logger.Info().Int64("dish_id", dishID).Str("date", rec.Day()).Msg("recommendation saved")

	s.publish(ctx, logger, rec)

	return Result{Recommendation: rec, Menu: menu, Date: rec.Day()}, nil
}

// Today возвращает сохранённую рекомендацию пользователя за текущий день.
func (s *Service) Today(ctx context.Context, userID int64) (domain.Recommendation, error) {
	if userID <= 0 {
		return domain.Recommendation{}, domain.ErrUnauthorized
	}
	return s.repo.Latest(ctx, userID, s.today())
}

func (s *Service) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// publish отправляет событие один раз на (пользователь, дата, блюдо). Ошибки только логируются:
// рекомендация к этому моменту уже сохранена.
func (s *Service) publish(ctx context.Context, logger zerolog.Logger, rec domain.Recommendation) {
	if s.publisher == nil {
		return
	}
	event := domain.RecommendationEvent{
		ID:        uuid.NewString(),
		Type:      domain.RecommendationEventType,
		UserID:    rec.UserID,
		MenuID:    rec.MenuID,
		DishID:    rec.DishID,
		Date:      rec.Day(),
		CreatedAt: s.now().UTC(),
	}
	send := func() error { return s.publisher.Publish(ctx, event) }
	var err error
	if s.cache != nil {
		err = s.cache.Once(ctx, eventKey(rec), s.dedupTTL, send)
	} else {
		err = send()
	}
	if err != nil {
		metrics.IncEventPublishError(s.backend)
		logger.Error().Err(err).Str("event_id", event.ID).Msg("recommendation event publish failed")
	}
}

func firstError(prefErr, menuErr error) error {
	if prefErr != nil {
		return fmt.Errorf("предпочтения пользователя: %w", prefErr)
	}
	if menuErr != nil {
		return fmt.Errorf("меню: %w", menuErr)
	}
	return nil
}

func eventKey(rec domain.Recommendation) string {
	return "recommendation:event:" + strconv.FormatInt(rec.UserID, 10) + ":" + rec.Day() + ":" + strconv.FormatInt(rec.DishID, 10)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidMenuID):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}
