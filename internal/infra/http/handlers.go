package http

import (
	"context"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/usecase/recommend"
)

// Recommender описывает операции сервиса рекомендаций, доступные через HTTP.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (recommend.Result, error)
	Today(ctx context.Context, userID int64) (domain.Recommendation, error)
}

// Handler обслуживает эндпоинты рекомендаций.
type Handler struct {
	svc Recommender
	log zerolog.Logger
}

// NewHandler создаёт обработчик.
func NewHandler(svc Recommender, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: logger}
}

type recommendationResponse struct {
	UserID int64            `json:"user_id"`
	MenuID int64            `json:"menu_id"`
	DishID int64            `json:"dish_id"`
	Menu   *domain.MenuView `json:"menu,omitempty"`
	Date   string           `json:"date"`
}

// Mount регистрирует защищённые маршруты.
func (h *Handler) Mount(r chi.Router, secret []byte) {
	r.Group(func(protected chi.Router) {
		protected.Use(BearerAuthMiddleware(secret))
		protected.Get("/recommendations", h.recommend)
		protected.Get("/recommendations/today", h.today)
	})
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	menuID, err := strconv.ParseInt(r.URL.Query().Get("menu_id"), 10, 64)
	if err != nil || menuID <= 0 {
		WriteError(w, http.StatusUnprocessableEntity, recommend.ErrInvalidMenuID.Error())
		return
	}
	res, err := h.svc.Recommend(r.Context(), recommend.Request{
		UserID: userID,
		Token:  Token(r.Context()),
		MenuID: menuID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	menu := res.Menu
	if menu.Dishes == nil {
		menu.Dishes = []domain.Dish{}
	}
	WriteJSON(w, http.StatusOK, recommendationResponse{
		UserID: res.Recommendation.UserID,
		MenuID: res.Recommendation.MenuID,
		DishID: res.Recommendation.DishID,
		Menu:   &menu,
		Date:   res.Date,
	})
}

func (h *Handler) today(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())
	rec, err := h.svc.Today(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, recommendationResponse{
		UserID: rec.UserID,
		MenuID: rec.MenuID,
		DishID: rec.DishID,
		Date:   rec.Day(),
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := StatusFor(err)
	ev := h.log.Warn()
	if status >= http.StatusInternalServerError {
		ev = h.log.Error()
	}
	ev.Err(err).Str("request_id", RequestID(r)).Int("status", status).Msg("recommendation request failed")
	WriteError(w, status, detail)
}
