package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	tokenKey
)

var errInvalidToken = errors.New("invalid or expired token")

// BearerAuthMiddleware проверяет HS256 токен из заголовка Authorization и кладёт id пользователя в контекст.
func BearerAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			userID, err := ParseUserID(raw, secret)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, tokenKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseUserID проверяет подпись и срок действия токена и возвращает claim id.
func ParseUserID(raw string, secret []byte) (int64, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	id, ok := claimID(claims["id"])
	if !ok || id <= 0 {
		return 0, fmt.Errorf("%w: claim id", errInvalidToken)
	}
	return id, nil
}

func claimID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		if id != math.Trunc(id) || id > math.MaxInt64 {
			return 0, false
		}
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID возвращает идентификатор пользователя, установленный BearerAuthMiddleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Token возвращает исходный bearer токен запроса.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
