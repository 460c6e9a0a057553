// Package delivery provides the HTTP client adapter for the external
// delivery system. The workflow only informs it about assignments and retry
// scheduling; the delivery attempt counter lives on the order aggregate.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// Client implements ports.DeliveryCoordinator against the delivery system's
// HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a delivery coordinator client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type assignmentRequest struct {
	OrderID     string `json:"order_id"`
	PersonnelID string `json:"personnel_id"`
}

type retryRequest struct {
	OrderID     string     `json:"order_id"`
	At          *time.Time `json:"at,omitempty"`
	PersonnelID *string    `json:"personnel_id,omitempty"`
}

// AssignPersonnel notifies the delivery system about a dispatch.
func (c *Client) AssignPersonnel(ctx context.Context, orderID, personnelID kernel.UUID) error {
	return c.postJSON(ctx, "/assignments", assignmentRequest{
		OrderID:     orderID.String(),
		PersonnelID: personnelID.String(),
	})
}

// ScheduleRetry books a re-dispatch after a failed attempt. Either of at and
// personnelID may be nil to keep the previous value.
func (c *Client) ScheduleRetry(ctx context.Context, orderID kernel.UUID, at *time.Time, personnelID *kernel.UUID) error {
	req := retryRequest{OrderID: orderID.String(), At: at}
	if personnelID != nil {
		s := personnelID.String()
		req.PersonnelID = &s
	}
	return c.postJSON(ctx, "/retries", req)
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
		return fmt.Errorf("delivery system returned status %d", resp.StatusCode)
	}
	return nil
}
