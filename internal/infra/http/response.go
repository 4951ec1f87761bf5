package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/usecase/recommend"
)

// ErrorResponse описывает ошибку.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON отправляет ответ в JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError отправляет JSON с ошибкой.
func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, ErrorResponse{Detail: detail})
}

// StatusFor сопоставляет доменную ошибку с HTTP статусом и текстом ответа.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, recommend.ErrInvalidMenuID):
		return http.StatusUnprocessableEntity, recommend.ErrInvalidMenuID.Error()
	case errors.Is(err, domain.ErrNoRecommendation):
		return http.StatusNotFound, "No recommendation available"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "Upstream service error"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
