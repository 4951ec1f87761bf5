package userclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dish-recommendations/internal/domain"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	return client
}

func TestFetchLikedDataShape(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/42/likes" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"count":2,"data":[{"dish_id":12},{"dish_id":7}]}`))
	})
	liked, err := client.FetchLiked(context.Background(), 42)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(liked) != 2 || !liked.Has(12) || !liked.Has(7) {
		t.Fatalf("неверный набор блюд: %v", liked)
	}
}

func TestFetchLikedIDsShape(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"liked_dish_ids":[3,4,4]}`))
	})
	liked, err := client.FetchLiked(context.Background(), 1)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(liked) != 2 || !liked.Has(3) {
		t.Fatalf("неверный набор блюд: %v", liked)
	}
}

func TestFetchLikedEmpty(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"count":0,"data":[]}`))
	})
	liked, err := client.FetchLiked(context.Background(), 1)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(liked) != 0 {
		t.Fatalf("ожидали пустой набор")
	}
}

func TestFetchLikedErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "user not found", status: http.StatusNotFound, body: `{"message":"User not found"}`, want: domain.ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, want: domain.ErrUpstream},
		{name: "bad gateway", status: http.StatusBadGateway, want: domain.ErrUpstream},
		{name: "malformed body", status: http.StatusOK, body: `not json`, want: domain.ErrUpstream},
		{name: "like without dish id", status: http.StatusOK, body: `{"data":[{"id":1}]}`, want: domain.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.FetchLiked(context.Background(), 5)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ожидали %v, получили %v", tt.want, err)
			}
		})
	}
}

func TestFetchLikedTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	client, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	_, err = client.FetchLiked(context.Background(), 1)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("таймаут должен давать ErrUpstream, получили %v", err)
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("ожидали ошибку для пустого адреса")
	}
}
