package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrNotFound = errors.New("order: not found")

// CartItem carries the metadata tags the booking assembly relies on:
// group_id, offering_date and passenger_type.
type CartItem struct {
	ID        string         `json:"id"`
	VariantID string         `json:"variant_id"`
	Quantity  int            `json:"quantity"`
	Metadata  map[string]any `json:"metadata"`
}

type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

type LineItemInput struct {
	VariantID string         `json:"variant_id"`
	Quantity  int            `json:"quantity"`
	Metadata  map[string]any `json:"metadata"`
}

type Order struct {
	ID           string          `json:"id"`
	Email        string          `json:"email,omitempty"`
	CurrencyCode string          `json:"currency_code,omitempty"`
	Total        float64         `json:"total,omitempty"`
	Items        json.RawMessage `json:"items,omitempty"`
	CreatedAt    time.Time       `json:"created_at,omitempty"`
}

// Client talks to the commerce framework's cart and order APIs.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) RetrieveCart(ctx context.Context, id string) (*Cart, error) {
	var out struct {
		Cart Cart `json:"cart"`
	}
	if err := c.do(ctx, http.MethodGet, "/carts/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) AddLineItems(ctx context.Context, cartID string, items []LineItemInput) (*Cart, error) {
	body := struct {
		Items []LineItemInput `json:"items"`
	}{Items: items}
	var out struct {
		Cart Cart `json:"cart"`
	}
	if err := c.do(ctx, http.MethodPost, "/carts/"+cartID+"/line-items", body, &out); err != nil {
		return nil, err
	}
	return &out.Cart, nil
}

func (c *Client) CompleteCart(ctx context.Context, id string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/carts/"+id+"/complete", nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) RetrieveOrder(ctx context.Context, id string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("order: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
