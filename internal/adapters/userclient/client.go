package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/metrics"
)

const defaultTimeout = 3 * time.Second

// Client ходит в сервис пользователей за понравившимися блюдами.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var _ domain.PreferenceClient = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout <= 0 {
			return
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// New создаёт клиента. Таймаут по умолчанию 3 секунды, повторов нет.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "http"
	}
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// likesResponse покрывает обе формы ответа сервиса пользователей.
type likesResponse struct {
	Data []struct {
		DishID *int64 `json:"dish_id"`
	} `json:"data"`
	LikedDishIDs []int64 `json:"liked_dish_ids"`
}

// FetchLiked возвращает множество понравившихся блюд пользователя.
func (c *Client) FetchLiked(ctx context.Context, userID int64) (domain.LikedDishes, error) {
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + "/users/" + strconv.FormatInt(userID, 10) + "/likes"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveNetworkRequest("users", "likes", c.baseURL.Host, start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: user service request failed: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: user service status=%d message=%s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var body likesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode user service response: %v", domain.ErrUpstream, err)
	}
	liked := domain.NewLikedDishes(body.LikedDishIDs...)
	for _, item := range body.Data {
		if item.DishID == nil {
			return nil, fmt.Errorf("%w: user service like without dish_id", domain.ErrUpstream)
		}
		liked[*item.DishID] = struct{}{}
	}
	return liked, nil
}
