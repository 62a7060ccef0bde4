package delivery

import (
	"context"
	"fmt"
)

// DLQAlert is one notification message parked in the delivery service's
// dead-letter queue after repeated processing failures. The queue itself
// lives server-side; the client only lists and acts on alerts.
type DLQAlert struct {
	ID         int64  `json:"id"`
	DeliveryID int64  `json:"deliveryId"`
	URL        string `json:"url"`
	RetryCount int    `json:"retryCount"`
	LastError  string `json:"lastError"`
	FailedAt   string `json:"failedAt"`
	Resolved   bool   `json:"resolved"`
}

// DLQAlerts lists the unresolved dead-letter alerts (admin view).
func (c *Client) DLQAlerts(ctx context.Context) ([]DLQAlert, error) {
	var resp []DLQAlert
	if err := c.api.Get(ctx, "/deliveries/dlq/alerts", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ResolveDLQAlert marks an alert as handled without reprocessing it.
func (c *Client) ResolveDLQAlert(ctx context.Context, alertID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/deliveries/dlq/alerts/%d/resolve", alertID), nil, nil)
}

// RequeueDLQAlert puts the failed message back on the notification queue
// for another delivery attempt.
func (c *Client) RequeueDLQAlert(ctx context.Context, alertID int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/deliveries/dlq/alerts/%d/requeue", alertID), nil, nil)
}
