package http

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("не удалось подписать токен: %v", err)
	}
	return raw
}

func TestParseUserID(t *testing.T) {
	future := time.Now().Add(time.Hour).Unix()
	cases := []struct {
		name    string
		token   func(t *testing.T) string
		want    int64
		wantErr bool
	}{
		{"числовой id", func(t *testing.T) string {
			return signToken(t, jwt.MapClaims{"id": 42, "exp": future}, testSecret)
		}, 42, false},
		{"строковый id", func(t *testing.T) string {
			return signToken(t, jwt.MapClaims{"id": "7"}, testSecret)
		}, 7, false},
		{"истёкший", func(t *testing.T) string {
			return signToken(t, jwt.MapClaims{"id": 1, "exp": time.Now().Add(-time.Hour).Unix()}, testSecret)
		}, 0, true},
		{"чужой секрет", func(t *testing.T) string {
			return signToken(t, jwt.MapClaims{"id": 1}, []byte("other"))
		}, 0, true},
		{"без id", func(t *testing.T) string {
			return signToken(t, jwt.MapClaims{"sub": "1"}, testSecret)
		}, 0, true},
		{"дробный id", func(t *testing.T) string {
			return signToken(t, jwt.MapClaims{"id": 1.5}, testSecret)
		}, 0, true},
		{"alg none", func(t *testing.T) string {
			raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
			if err != nil {
				t.Fatalf("подпись: %v", err)
			}
			return raw
		}, 0, true},
		{"мусор", func(*testing.T) string { return "not-a-jwt" }, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseUserID(tc.token(t), testSecret)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ожидали ошибку, получили id %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("не ожидали ошибку: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ожидали %d, получили %d", tc.want, got)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]bool{
		"Bearer abc": true,
		"bearer abc": true,
		"Basic abc":  false,
		"Bearer ":    false,
		"":           false,
	}
	for header, want := range cases {
		if _, ok := bearerToken(header); ok != want {
			t.Fatalf("%q: ожидали %v", header, want)
		}
	}
}
