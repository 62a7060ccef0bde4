// Package delivery provides the client for the delivery service:
// listing and tracking the current user's deliveries, cancelling them,
// and the admin dead-letter-queue alert views.
package delivery

import (
	"context"
	"fmt"

	"github.com/swiftmart/storefront/internal/backend"
)

// Delivery statuses as reported by the delivery service.
const (
	StatusCreated   = "CREATED"
	StatusPickedUp  = "PICKED_UP"
	StatusInTransit = "IN_TRANSIT"
	StatusReceived  = "RECEIVED"
	StatusLost      = "LOST"
	StatusCancelled = "CANCELLED"
)

// TerminalStatuses are the statuses after which a delivery no longer
// changes; views stop polling once one is reached.
var TerminalStatuses = []string{StatusReceived, StatusLost, StatusCancelled}

// Delivery is one delivery task.
type Delivery struct {
	ID             int64    `json:"id"`
	OrderID        string   `json:"orderId"`
	DeliveryStatus string   `json:"deliveryStatus"`
	UserName       string   `json:"userName"`
	Email          string   `json:"email"`
	ProductName    string   `json:"productName"`
	Quantity       int      `json:"quantity"`
	ToAddress      string   `json:"toAddress"`
	FromAddress    []string `json:"fromAddress"`
	CreationTime   string   `json:"creationTime"`
	UpdateTime     string   `json:"updateTime"`
}

// Terminal reports whether the delivery has reached a final status.
func (d Delivery) Terminal() bool {
	switch d.DeliveryStatus {
	case StatusReceived, StatusLost, StatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether the delivery can still be cancelled. The
// backend rejects cancellation once the parcel is in transit.
func (d Delivery) Cancellable() bool {
	return d.DeliveryStatus == StatusCreated || d.DeliveryStatus == StatusPickedUp
}

// Client calls the delivery service. All operations require a session.
type Client struct {
	api *backend.Client
}

// New creates a delivery client on top of a configured backend client.
func New(api *backend.Client) *Client {
	return &Client{api: api}
}

// MyDeliveries lists the current user's delivery tasks. The user is
// identified by the session token.
func (c *Client) MyDeliveries(ctx context.Context) ([]Delivery, error) {
	var resp []Delivery
	if err := c.api.Get(ctx, "/deliveries/me", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeliveryByID returns one delivery task.
func (c *Client) DeliveryByID(ctx context.Context, id int64) (*Delivery, error) {
	var resp Delivery
	if err := c.api.Get(ctx, fmt.Sprintf("/deliveries/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cancel cancels a delivery task.
func (c *Client) Cancel(ctx context.Context, id int64) error {
	return c.api.Post(ctx, fmt.Sprintf("/deliveries/%d/cancel", id), nil, nil)
}
