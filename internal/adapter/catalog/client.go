package catalog

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

var ErrNotFound = errors.New("catalog: not found")

// Client is the narrow REST surface this service consumes from the
// commerce framework's catalog. Products, variants and price sets are
// owned by the framework; we only create, patch and delete through it.
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

func (c *Client) CreateProductWithVariants(ctx context.Context, spec ProductSpec) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", spec, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) RetrieveProduct(ctx context.Context, id string) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch ProductPatch) error {
	return c.do(ctx, http.MethodPost, "/products/"+id, patch, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}

// RetrieveVariant resolves a catalog variant, including its price set id.
func (c *Client) RetrieveVariant(ctx context.Context, id string) (*Variant, error) {
	var out struct {
		Variant Variant `json:"variant"`
	}
	if err := c.do(ctx, http.MethodGet, "/variants/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.Variant, nil
}

func (c *Client) GetPriceSet(ctx context.Context, id string) (*PriceSet, error) {
	var out struct {
		PriceSet PriceSet `json:"price_set"`
	}
	if err := c.do(ctx, http.MethodGet, "/price-sets/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out.PriceSet, nil
}

// UpdatePriceSet overwrites the price entries for the currencies present
// in prices. Entries for other currencies are left untouched.
func (c *Client) UpdatePriceSet(ctx context.Context, id string, prices []Price) error {
	body := struct {
		Prices []Price `json:"prices"`
	}{Prices: prices}
	return c.do(ctx, http.MethodPost, "/price-sets/"+id, body, nil)
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
		return fmt.Errorf("catalog: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
