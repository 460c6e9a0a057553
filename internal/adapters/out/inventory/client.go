// Package inventory provides the HTTP client adapter for the stock service.
// Reservations are keyed by order ID on the service side, which makes every
// call idempotent per order: replaying a reserve or release is safe.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// Client implements ports.Inventory against the stock service's HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an inventory client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type lineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type reservationRequest struct {
	OrderID string     `json:"order_id"`
	Items   []lineItem `json:"items"`
}

type restockRequest struct {
	Items []lineItem `json:"items"`
}

// Reserve holds stock for the order's items.
func (c *Client) Reserve(ctx context.Context, orderID kernel.UUID, items []order.Item) error {
	return c.postJSON(ctx, "/reservations", reservationRequest{
		OrderID: orderID.String(),
		Items:   toLineItems(items),
	})
}

// Release frees stock previously reserved for the order.
func (c *Client) Release(ctx context.Context, orderID kernel.UUID, items []order.Item) error {
	return c.postJSON(ctx, "/releases", reservationRequest{
		OrderID: orderID.String(),
		Items:   toLineItems(items),
	})
}

// Restock returns goods to stock after a completed return.
func (c *Client) Restock(ctx context.Context, items []order.Item) error {
	return c.postJSON(ctx, "/restocks", restockRequest{Items: toLineItems(items)})
}

func toLineItems(items []order.Item) []lineItem {
	lines := make([]lineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, lineItem{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
		})
	}
	return lines
}

func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("inventory service returned status %d", resp.StatusCode)
	}
	return nil
}
