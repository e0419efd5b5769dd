// Package catalogclient reads product summaries from the catalog service.
package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrUnexpectedStatus = errors.New("unexpected status from catalog")

type Brand struct {
	Name string `json:"name"`
}

type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ListedPrice  float64  `json:"listed_price"`
	SellingPrice float64  `json:"selling_price"`
	Stock        int      `json:"stock"`
	Active       bool     `json:"active"`
	Brand        Brand    `json:"brand"`
	ImagePaths   []string `json:"image_paths"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(catalogURL string) *Client {
	return NewClientWithHTTP(catalogURL, &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	})
}

func NewClientWithHTTP(catalogURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(catalogURL, "/"),
		httpClient: httpClient,
	}
}

// Products fetches every active product in the order the catalog returns them.
// A JSON null body yields a nil slice.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/catalog/products/active", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return products, nil
}
