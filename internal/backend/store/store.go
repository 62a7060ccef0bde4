// Package store provides the client for the auth/store service: account
// lifecycle, login, password reset, the product catalog, orders with
// integrated payment, and the admin inventory views.
package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/swiftmart/storefront/internal/backend"
)

// Client calls the auth/store service. Login and password reset work
// unauthenticated; everything else carries the session token.
type Client struct {
	api *backend.Client
}

// New creates a store client on top of a configured backend client.
func New(api *backend.Client) *Client {
	return &Client{api: api}
}

// =============================================================================
// Account & Auth
// =============================================================================

// CreateAccountRequest registers a new user account.
type CreateAccountRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// AccountResponse is the generic success/message envelope used by the
// account endpoints.
type AccountResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the result of a successful login. Token and UserID
// feed the session store.
type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	Email   string `json:"email"`
	UserID  int64  `json:"userId"`
}

// CreateAccount registers a new account.
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	var resp AccountResponse
	if err := c.api.Post(ctx, "/user", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.api.Post(ctx, "/user/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ActivateAccount activates an account after its email was verified.
func (c *Client) ActivateAccount(ctx context.Context, email string) (*AccountResponse, error) {
	var resp AccountResponse
	body := map[string]string{"email": email}
	if err := c.api.Post(ctx, "/user/activate", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckEmailVerified reports whether the account's email is verified.
func (c *Client) CheckEmailVerified(ctx context.Context, email string) (*AccountResponse, error) {
	var resp AccountResponse
	if err := c.api.Get(ctx, "/user/check-verified/"+url.PathEscape(email), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword requests a password-reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*AccountResponse, error) {
	var resp AccountResponse
	body := map[string]string{"email": email}
	if err := c.api.Post(ctx, "/user/forgot-password", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password using the emailed reset code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) (*AccountResponse, error) {
	var resp AccountResponse
	body := map[string]string{
		"email":       email,
		"code":        code,
		"newPassword": newPassword,
	}
	if err := c.api.Post(ctx, "/user/reset-password", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// =============================================================================
// Products
// =============================================================================

// Product is one catalog entry.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Description   string  `json:"description"`
	StockQuantity int     `json:"stockQuantity"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type productResponse struct {
	Product *Product `json:"product"`
}

// Products returns the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var resp productsResponse
	if err := c.api.Get(ctx, "/products", &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// AvailableProducts returns only products with stock.
func (c *Client) AvailableProducts(ctx context.Context) ([]Product, error) {
	var resp productsResponse
	if err := c.api.Get(ctx, "/products/available", &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// ProductByID looks up one product.
func (c *Client) ProductByID(ctx context.Context, id int64) (*Product, error) {
	var resp productResponse
	if err := c.api.Get(ctx, fmt.Sprintf("/products/%d", id), &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}

// SearchProducts searches the catalog by name.
func (c *Client) SearchProducts(ctx context.Context, name string) ([]Product, error) {
	params := url.Values{}
	params.Set("name", name)

	var resp productsResponse
	if err := c.api.Get(ctx, "/products/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// =============================================================================
// Orders & Payments
// =============================================================================

// Order is one order as the order endpoints return it.
type Order struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Status      string  `json:"status"`
	TotalAmount float64 `json:"totalAmount"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// Payment is the payment record attached to an order.
type Payment struct {
	PaymentID   int64   `json:"paymentId"`
	OrderID     int64   `json:"orderId"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"paymentDate"`
}

// OrderWithPayment pairs an order with its payment record.
type OrderWithPayment struct {
	Order   *Order   `json:"order"`
	Payment *Payment `json:"payment"`
}

// OrderResponse is the envelope returned by the mutating order endpoints.
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Order   *Order `json:"order"`
}

// OrderItem is one line of a checkout request.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequest creates an order and pays for it in one step.
type CheckoutRequest struct {
	UserID     int64       `json:"userId"`
	OrderItems []OrderItem `json:"orderItems"`
}

// UserOrdersWithPayment lists a user's orders with payment info.
func (c *Client) UserOrdersWithPayment(ctx context.Context, userID int64) ([]OrderWithPayment, error) {
	var resp []OrderWithPayment
	path := fmt.Sprintf("/store/orders/user/%d/with-payment", userID)
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OrderWithPayment returns one order with its payment info.
func (c *Client) OrderWithPayment(ctx context.Context, orderID int64) (*OrderWithPayment, error) {
	var resp OrderWithPayment
	path := fmt.Sprintf("/store/orders/%d/with-payment", orderID)
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelOrder cancels an order: the backend rolls back inventory and
// refunds any deducted payment.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	var resp OrderResponse
	path := fmt.Sprintf("/store/orders/%d/cancel", orderID)
	if err := c.api.Post(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RetryPayment retries payment for an existing unpaid order.
func (c *Client) RetryPayment(ctx context.Context, orderID int64) (*OrderResponse, error) {
	var resp OrderResponse
	path := fmt.Sprintf("/store/orders/%d/retry-payment", orderID)
	if err := c.api.Post(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Checkout creates an order with integrated payment.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.api.Post(ctx, "/store/orders/create-with-payment", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PaymentResponse is the envelope returned by the payment endpoints.
type PaymentResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *Payment `json:"data"`
}

// PaymentByOrderID queries the payment status for an order.
func (c *Client) PaymentByOrderID(ctx context.Context, orderID int64) (*PaymentResponse, error) {
	var resp PaymentResponse
	path := fmt.Sprintf("/payments/order/%d", orderID)
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefundPayment requests a refund for an order.
func (c *Client) RefundPayment(ctx context.Context, orderID int64, reason string) (*PaymentResponse, error) {
	if reason == "" {
		reason = "Customer requested refund"
	}
	body := map[string]string{"reason": reason}

	var resp PaymentResponse
	path := fmt.Sprintf("/payments/%d/refund", orderID)
	if err := c.api.Post(ctx, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
