package menuclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/metrics"
)

const defaultTimeout = 3 * time.Second

const menuByIDQuery = `
query Menu($id: Int!) {
  menuById(id: $id) {
    id_menu
    dish_id
    dish_category
    dish_name
    dish_description
    menu_period
    menu_date
  }
}`

// Client запрашивает меню у GraphQL API сервиса меню.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

var _ domain.MenuClient = (*Client)(nil)

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

// New создаёт клиента для GraphQL эндпоинта.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	client := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data *struct {
		MenuByID json.RawMessage `json:"menuById"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// menuEntry соответствует записи MenuWithDish из схемы сервиса меню.
type menuEntry struct {
	MenuID      *int64  `json:"id_menu"`
	DishID      *int64  `json:"dish_id"`
	Category    string  `json:"dish_category"`
	Name        string  `json:"dish_name"`
	Description *string `json:"dish_description"`
	Period      string  `json:"menu_period"`
	Date        string  `json:"menu_date"`
}

// FetchMenu загружает меню и приводит ответ к domain.MenuView.
// Токен вызывающего пробрасывается в заголовке Authorization.
func (c *Client) FetchMenu(ctx context.Context, menuID int64, token string) (domain.MenuView, error) {
	raw, err := json.Marshal(graphQLRequest{Query: menuByIDQuery, Variables: map[string]any{"id": menuID}})
	if err != nil {
		return domain.MenuView{}, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return domain.MenuView{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveNetworkRequest("menu", "menu_by_id", "graphql", start, err)
	if err != nil {
		return domain.MenuView{}, fmt.Errorf("%w: menu service request failed: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.MenuView{}, fmt.Errorf("%w: menu service status=%d message=%s", domain.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var body graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.MenuView{}, fmt.Errorf("%w: decode menu service response: %v", domain.ErrUpstream, err)
	}
	if len(body.Errors) > 0 {
		messages := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			messages = append(messages, e.Message)
		}
		return domain.MenuView{}, fmt.Errorf("%w: menu service graphql error: %s", domain.ErrUpstream, strings.Join(messages, "; "))
	}
	if body.Data == nil {
		return domain.MenuView{}, fmt.Errorf("%w: menu service response without data", domain.ErrUpstream)
	}
	entries, err := decodeEntries(body.Data.MenuByID)
	if err != nil {
		return domain.MenuView{}, err
	}
	if len(entries) == 0 {
		return domain.MenuView{}, fmt.Errorf("menu %d: %w", menuID, domain.ErrNotFound)
	}
	return normalize(menuID, entries)
}

// decodeEntries принимает как одиночную запись, так и список записей одного меню.
func decodeEntries(raw json.RawMessage) ([]menuEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var entries []menuEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("%w: decode menu list: %v", domain.ErrUpstream, err)
		}
		return entries, nil
	}
	var entry menuEntry
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return nil, fmt.Errorf("%w: decode menu entry: %v", domain.ErrUpstream, err)
	}
	return []menuEntry{entry}, nil
}

func normalize(requested int64, entries []menuEntry) (domain.MenuView, error) {
	view := domain.MenuView{ID: requested, Dishes: make([]domain.Dish, 0, len(entries))}
	for i, e := range entries {
		if e.MenuID == nil || e.DishID == nil {
			return domain.MenuView{}, fmt.Errorf("%w: menu entry %d without id_menu or dish_id", domain.ErrUpstream, i)
		}
		if i == 0 {
			view.ID = *e.MenuID
		}
		dish := domain.Dish{
			ID:       *e.DishID,
			Category: e.Category,
			Name:     e.Name,
			Period:   e.Period,
			Date:     e.Date,
		}
		if e.Description != nil {
			dish.Description = *e.Description
		}
		view.Dishes = append(view.Dishes, dish)
	}
	return view, nil
}
